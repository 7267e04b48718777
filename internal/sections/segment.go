package sections

import (
	"regexp"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/types"
)

var lineSplitRegex = regexp.MustCompile(`\r?\n`)

// Segmentation is the result of one pass over a document.
type Segmentation struct {
	Sections        []types.DetectedSection
	UnknownHeadings []types.UnknownHeading
}

// IDs returns the distinct section ids in document order.
func (s *Segmentation) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, section := range s.Sections {
		if !seen[section.ID] {
			seen[section.ID] = true
			ids = append(ids, section.ID)
		}
	}
	return ids
}

// ByID groups detected sections by id, preserving document order within a group.
func (s *Segmentation) ByID() map[string][]types.DetectedSection {
	grouped := make(map[string][]types.DetectedSection)
	for _, section := range s.Sections {
		grouped[section.ID] = append(grouped[section.ID], section)
	}
	return grouped
}

// segmenter is the two-state machine: current == nil is NO_ACTIVE_SECTION.
// The body of the active section accumulates in body until finalize.
type segmenter struct {
	matcher *Matcher
	out     Segmentation
	current *types.DetectedSection
	body    strings.Builder
}

// Segment splits text into detected sections in a single left-to-right pass.
func Segment(text string, template *types.TemplateConfig) *Segmentation {
	return SegmentWith(text, NewMatcher(template))
}

// SegmentWith segments text using a prebuilt matcher.
func SegmentWith(text string, matcher *Matcher) *Segmentation {
	s := &segmenter{matcher: matcher}
	for index, line := range lineSplitRegex.Split(text, -1) {
		s.feed(strings.TrimSpace(line), index+1)
	}
	s.finalize()
	return &s.out
}

func (s *segmenter) feed(line string, lineNumber int) {
	if line == "" {
		if s.current != nil {
			s.body.WriteByte('\n')
		}
		return
	}

	if section, ok := s.matcher.Match(line); ok {
		s.finalize()
		s.current = &types.DetectedSection{
			ID:               section.ID,
			CanonicalHeading: section.CanonicalHeading,
			OriginalHeading:  line,
			StartLine:        lineNumber,
		}
		return
	}

	if s.current == nil {
		if s.matcher.IsCandidate(line) && !IsIgnorableHeading(line) {
			s.out.UnknownHeadings = append(s.out.UnknownHeadings, types.UnknownHeading{
				Text: line,
				Line: lineNumber,
			})
		}
		return
	}

	if s.body.Len() > 0 {
		s.body.WriteByte('\n')
	}
	s.body.WriteString(line)
}

// finalize pushes the active section, if any, and returns to NO_ACTIVE_SECTION.
func (s *segmenter) finalize() {
	if s.current == nil {
		return
	}
	s.current.Content = s.body.String()
	s.out.Sections = append(s.out.Sections, *s.current)
	s.current = nil
	s.body.Reset()
}
