package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/biosketch-checker/internal/types"
)

var (
	entryBoundaryRegex = regexp.MustCompile(`\n\s*(\d+\.\s)`)
	paragraphRegex     = regexp.MustCompile(`\n\s*\n`)
	entryNumberRegex   = regexp.MustCompile(`^\d+\.\s*`)
)

// SplitContributionEntries splits section content at every line that starts
// with "<number>. ". Text before the first numbered line forms its own entry.
func SplitContributionEntries(content string) []string {
	var entries []string
	start := 0
	for _, loc := range entryBoundaryRegex.FindAllStringSubmatchIndex(content, -1) {
		entries = append(entries, content[start:loc[0]])
		start = loc[2]
	}
	entries = append(entries, content[start:])

	kept := entries[:0]
	for _, entry := range entries {
		if strings.TrimSpace(entry) != "" {
			kept = append(kept, entry)
		}
	}
	return kept
}

// ParseContribution reads one numbered entry: the first paragraph, minus its
// number, is the description and the remaining paragraphs are citations.
// Products are returned uncapped.
func ParseContribution(entry string) types.ContributionToScience {
	paragraphs := paragraphRegex.Split(strings.TrimSpace(entry), -1)
	description := strings.TrimSpace(entryNumberRegex.ReplaceAllString(strings.TrimSpace(paragraphs[0]), ""))

	products := ParseCitations(strings.Join(paragraphs[1:], "\n\n"))
	return types.ContributionToScience{
		Description: description,
		Products:    products,
	}
}

// ParseContributions splits and parses every entry in the section content.
func ParseContributions(content string) []types.ContributionToScience {
	entries := SplitContributionEntries(content)
	out := make([]types.ContributionToScience, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ParseContribution(entry))
	}
	return out
}
