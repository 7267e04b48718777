package validation

import (
	"fmt"
	"regexp"

	"github.com/jonathan/biosketch-checker/internal/types"
)

type piiPattern struct {
	id      string
	name    string
	pattern *regexp.Regexp
	all     bool // report every match, not just the first
}

var piiPatterns = []piiPattern{
	{
		id:      "pii-email",
		name:    "Personal Email",
		pattern: regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`),
		all:     true,
	},
	{
		id:      "pii-phone",
		name:    "Phone Number",
		pattern: regexp.MustCompile(`(\(\d{3}\)\s*|\d{3}-)\d{3}-\d{4}`),
		all:     true,
	},
	{
		id:      "pii-address",
		name:    "Home Address",
		pattern: regexp.MustCompile(`(?i)\d+\s+[a-zA-Z\s]+?\s+(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|court|ct|lane|ln)\b`),
	},
	{
		id:      "pii-marital",
		name:    "Marital Status",
		pattern: regexp.MustCompile(`(?i)\b(married|single|divorced|widowed)\b`),
	},
	{
		id:      "pii-hobbies",
		name:    "Hobbies",
		pattern: regexp.MustCompile(`(?i)\b(hobbies|hobby|interests|pastimes)\b`),
	},
}

const piiRecommendation = "Remove all personal contact information, such as home address, personal email, or phone numbers, from the document."

// CheckPII scans the full document text. Email and phone patterns report every
// occurrence; the keyword and address patterns report their first occurrence.
func CheckPII(text string) []types.Issue {
	var issues []types.Issue
	for _, p := range piiPatterns {
		limit := 1
		if p.all {
			limit = -1
		}
		for _, match := range p.pattern.FindAllString(text, limit) {
			issues = append(issues, types.Issue{
				ID:              p.id,
				Severity:        types.SeverityRed,
				Title:           "Critical Error: Potential PII Detected",
				Description:     fmt.Sprintf("The document may contain prohibited personal information: %s.", p.name),
				EvidenceSnippet: types.StringPtr(match),
				Recommendation:  types.StringPtr(piiRecommendation),
			})
		}
	}
	return issues
}
