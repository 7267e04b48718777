package types

// Severity ranks an Issue. Green is never attached to an issue; it is the
// overall status of a document with no red or yellow findings.
type Severity string

// Severity levels
const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
	SeverityGreen  Severity = "green"
)

// Issue is one compliance finding. Severity is decided at the rule that raised it.
type Issue struct {
	ID              string   `json:"id"`
	Severity        Severity `json:"severity"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Section         *string  `json:"section"`
	EvidenceSnippet *string  `json:"evidenceSnippet"`
	Recommendation  *string  `json:"recommendation"`
}

// OverallStatus derives the document status from its issues: red if any red
// issue exists, else yellow if any yellow issue exists, else green.
func OverallStatus(issues []Issue) Severity {
	status := SeverityGreen
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityRed:
			return SeverityRed
		case SeverityYellow:
			status = SeverityYellow
		}
	}
	return status
}

// CountBySeverity tallies issues per severity.
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
