package rendering

import "strings"

// EscapeTableCell makes text safe for a Markdown table cell: pipes are escaped
// and line breaks folded into spaces.
func EscapeTableCell(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	for _, r := range text {
		switch r {
		case '|':
			result.WriteString(`\|`)
		case '\r':
		case '\n':
			result.WriteRune(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
