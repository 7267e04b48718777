// Package sections recognizes template headings in free-form biosketch text and
// segments the text into detected sections.
package sections

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Leading enumerator: a single letter, a roman numeral or a number, then . ) - or space.
	markerRegex        = regexp.MustCompile(`(?i)^([A-Z]|[IVX]+|\d+)[.)\s-]+`)
	colonDashRegex     = regexp.MustCompile(`[:\-]+`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)
	parentheticalRegex = regexp.MustCompile(`\s*\(.*$`)
	ignorableRegex     = regexp.MustCompile(`(?i)^omb\s+no\b`)
	letterRegex        = regexp.MustCompile(`[A-Za-z]`)
	titleCaseRegex     = regexp.MustCompile(`[A-Z][a-z]`)
)

// NormalizeHeading canonicalizes a raw line into a comparable heading key.
// Empty input yields an empty key.
func NormalizeHeading(input string) string {
	normalized := markerRegex.ReplaceAllString(input, "")
	normalized = strings.ToLower(normalized)
	normalized = colonDashRegex.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(whitespaceRegex.ReplaceAllString(normalized, " "))

	// "honorshonors" and "honors honors" -> "honors"
	if half, ok := doubledHalf(normalized); ok {
		normalized = half
	}
	return normalized
}

func doubledHalf(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	mid := len(s) / 2
	var first, second string
	switch {
	case len(s)%2 == 0:
		first, second = s[:mid], s[mid:]
	case s[mid] == ' ':
		first, second = s[:mid], s[mid+1:]
	default:
		return "", false
	}
	if first != second {
		return "", false
	}
	half := strings.TrimSpace(first)
	if half == "" {
		return "", false
	}
	return half, true
}

// stripParenthetical removes a trailing "(...)" qualifier such as "(max 5)".
func stripParenthetical(line string) string {
	return parentheticalRegex.ReplaceAllString(line, "")
}

// IsHeadingCandidate reports whether a line is shaped like a heading: short, has
// letters, at most ten words and one comma, and is ALL-CAPS (when allowed) or
// contains a capitalized word.
func IsHeadingCandidate(line string, maxHeadingLength int, allowAllCaps bool) bool {
	if line == "" {
		return false
	}
	candidate := strings.TrimSpace(stripParenthetical(line))
	if candidate == "" {
		return false
	}
	if utf8.RuneCountInString(candidate) > maxHeadingLength {
		return false
	}
	if !letterRegex.MatchString(candidate) {
		return false
	}
	if len(strings.Fields(candidate)) > 10 {
		return false
	}
	if strings.Count(candidate, ",") >= 2 {
		return false
	}
	allCaps := candidate == strings.ToUpper(candidate)
	if allCaps && !allowAllCaps {
		return false
	}
	return allCaps || titleCaseRegex.MatchString(candidate)
}

// IsIgnorableHeading is true for heading-shaped boilerplate such as OMB number footers.
func IsIgnorableHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	return ignorableRegex.MatchString(trimmed)
}
