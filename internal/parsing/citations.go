// Package parsing extracts structured entities (citations, education records,
// numbered contributions) from the raw content of detected sections. Every
// parser here is total: unparseable input yields an empty result.
package parsing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/biosketch-checker/internal/types"
)

var (
	enumeratorRegex  = regexp.MustCompile(`^(\d+[\).]|[-*•])\s+`)
	yearRegex        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	doiRegex         = regexp.MustCompile(`(?i)(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`)
	pmidRegex        = regexp.MustCompile(`(?i)\bPMID[:\s]*([0-9]{5,})`)
	openParenRegex   = regexp.MustCompile(`\s*\($`)
	trailPunctRegex  = regexp.MustCompile(`[.;,]+$`)
	leadingJunkRegex = regexp.MustCompile(`^[\s.,;:)\]]*`)
	spaceRunRegex    = regexp.MustCompile(`\s+`)
	newlineRegex     = regexp.MustCompile(`\r?\n`)
)

// minCitationLength is the shortest block kept as a citation.
const minCitationLength = 11

// SplitCitationBlocks groups lines into citation blocks. An enumerated line
// ("1.", "2)", "-", "*", "•") opens a block, a blank line closes one, and any
// other line continues the current block. Short blocks are dropped as noise.
func SplitCitationBlocks(text string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		block := strings.TrimSpace(spaceRunRegex.ReplaceAllString(strings.Join(current, " "), " "))
		if utf8.RuneCountInString(block) >= minCitationLength {
			blocks = append(blocks, block)
		}
		current = nil
	}

	for _, raw := range newlineRegex.Split(text, -1) {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		if enumeratorRegex.MatchString(line) {
			flush()
			line = enumeratorRegex.ReplaceAllString(line, "")
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

// ParseCitation extracts fields from one normalized citation block. It is pure:
// the same input always yields the same record.
func ParseCitation(raw string) types.Publication {
	pub := types.Publication{RawCitation: raw}

	if m := doiRegex.FindStringSubmatch(raw); m != nil {
		id := strings.TrimRight(m[1], ".")
		pub.DOIOrPMID = &id
	} else if m := pmidRegex.FindStringSubmatch(raw); m != nil {
		id := m[1]
		pub.DOIOrPMID = &id
	}

	if loc := yearRegex.FindStringIndex(raw); loc != nil {
		year, _ := strconv.Atoi(raw[loc[0]:loc[1]])
		pub.Year = &year

		authors := strings.TrimSpace(raw[:loc[0]])
		authors = openParenRegex.ReplaceAllString(authors, "")
		pub.Authors = trailPunctRegex.ReplaceAllString(authors, "")

		afterYear := leadingJunkRegex.ReplaceAllString(strings.TrimSpace(raw[loc[1]:]), "")
		pub.Title, pub.JournalOrSource = splitTitle(afterYear)
	} else if first := strings.Index(raw, "."); first > 0 {
		pub.Authors = strings.TrimSpace(raw[:first])
		pub.Title, pub.JournalOrSource = splitTitle(strings.TrimSpace(raw[first+1:]))
	} else {
		pub.Title = raw
	}

	pub.Confidence = confidence(pub)
	return pub
}

// splitTitle splits on the first period into title and an optional source.
func splitTitle(text string) (string, *string) {
	title, rest, _ := strings.Cut(text, ".")
	title = strings.TrimSpace(title)
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return title, nil
	}
	return title, &rest
}

func confidence(pub types.Publication) float64 {
	score := 0.40
	if pub.Year != nil {
		score = 0.55
	}
	if pub.DOIOrPMID != nil {
		score += 0.25
	}
	if pub.Title != "" {
		score += 0.15
	}
	return math.Min(1, math.Round(score*100)/100)
}

// ParseCitations splits text into blocks and parses each one.
func ParseCitations(text string) []types.Publication {
	return ParseBlocks(SplitCitationBlocks(text))
}

// ParseBlocks parses already-split citation blocks, skipping blank ones.
func ParseBlocks(blocks []string) []types.Publication {
	pubs := make([]types.Publication, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(spaceRunRegex.ReplaceAllString(block, " "))
		if block == "" {
			continue
		}
		pubs = append(pubs, ParseCitation(block))
	}
	return pubs
}

// FormatCitation renders a publication as a single reference line.
func FormatCitation(pub types.Publication) string {
	var sb strings.Builder
	sb.WriteString(pub.Authors)
	if pub.Year != nil {
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(*pub.Year))
		sb.WriteString(")")
	}
	sb.WriteString(". ")
	if pub.Title != "" {
		sb.WriteString(pub.Title)
		sb.WriteString(". ")
	}
	if pub.JournalOrSource != nil {
		sb.WriteString(strings.TrimRight(*pub.JournalOrSource, "."))
		sb.WriteString(".")
	}
	if pub.DOIOrPMID != nil && !strings.Contains(sb.String(), *pub.DOIOrPMID) {
		sb.WriteString(" ")
		sb.WriteString(*pub.DOIOrPMID)
	}
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(sb.String(), " "))
}
