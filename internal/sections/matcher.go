package sections

import (
	"sort"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/types"
)

// Matcher resolves candidate lines to template sections. It is built once per
// template and is safe for concurrent use.
type Matcher struct {
	headings     map[string]*types.TemplateSection
	keys         []string // longest first
	maxLength    int
	allowAllCaps bool
}

// NewMatcher indexes every canonical heading and variant of the template.
// On key collisions the later section wins.
func NewMatcher(template *types.TemplateConfig) *Matcher {
	m := &Matcher{
		headings:     make(map[string]*types.TemplateSection),
		maxLength:    template.UnknownHeadingHeuristic.MaxHeadingLength,
		allowAllCaps: template.UnknownHeadingHeuristic.AllowAllCaps,
	}

	all := template.AllSections()
	var order []string
	for i := range all {
		section := &all[i]
		keys := append([]string{section.CanonicalHeading}, section.Variants...)
		for _, key := range keys {
			normalized := NormalizeHeading(key)
			if normalized == "" {
				continue
			}
			if _, seen := m.headings[normalized]; !seen {
				order = append(order, normalized)
			}
			m.headings[normalized] = section
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(order[i]) > len(order[j])
	})
	m.keys = order
	return m
}

// Match resolves a trimmed, non-blank line: exact match on the normalized line,
// then on the line without its trailing parenthetical, then (only for
// heading-shaped lines) longest prefix match, then longest substring match.
func (m *Matcher) Match(line string) (*types.TemplateSection, bool) {
	normalized := NormalizeHeading(line)
	stripped := NormalizeHeading(stripParenthetical(line))

	if section, ok := m.headings[normalized]; ok {
		return section, true
	}
	if section, ok := m.headings[stripped]; ok {
		return section, true
	}

	if !m.IsCandidate(line) {
		return nil, false
	}

	candidate := stripped
	if candidate == "" {
		candidate = normalized
	}
	for _, key := range m.keys {
		if strings.HasPrefix(candidate, key) {
			return m.headings[key], true
		}
	}
	for _, key := range m.keys {
		if strings.Contains(candidate, key) {
			return m.headings[key], true
		}
	}
	return nil, false
}

// IsCandidate applies the template's heading-shape heuristic.
func (m *Matcher) IsCandidate(line string) bool {
	return IsHeadingCandidate(line, m.maxLength, m.allowAllCaps)
}

// Keys returns the indexed heading keys, longest first.
func (m *Matcher) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}
