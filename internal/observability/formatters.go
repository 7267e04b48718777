// Package observability provides the process logger and formatted output
// for validation reports in the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/biosketch-checker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output of reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// statusLabel renders a severity for the terminal.
func statusLabel(s types.Severity) string {
	switch s {
	case types.SeverityRed:
		return "RED (not compliant)"
	case types.SeverityYellow:
		return "YELLOW (review recommended)"
	default:
		return "GREEN (compliant)"
	}
}

// PrintReport outputs the status summary of a report followed by its issues.
func (p *Printer) PrintReport(report *types.ValidationResult) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.SourceName != "" {
		sb.WriteString(fmt.Sprintf("Document: %s\n", report.SourceName))
	}
	sb.WriteString(fmt.Sprintf("Template: %s (%s)\n", report.Template.Name, report.Template.Version))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", statusLabel(report.OverallStatus)))

	counts := types.CountBySeverity(report.Issues)
	sb.WriteString(fmt.Sprintf("Issues:   %d red, %d yellow\n", counts[types.SeverityRed], counts[types.SeverityYellow]))
	sb.WriteString(fmt.Sprintf("Sections: %d detected\n", len(report.DetectedSections)))
	sb.WriteString(fmt.Sprintf("Products: %d citations", len(report.Publications)))
	if report.LowConfidence {
		sb.WriteString("\n\nText extraction was low confidence.")
	}

	p.printBox("BIOSKETCH REPORT", sb.String())
	p.PrintIssues(report.Issues)
}

// PrintIssues outputs every issue, red first. Nothing is printed for an
// empty list.
func (p *Printer) PrintIssues(issues []types.Issue) {
	if len(issues) == 0 {
		return
	}

	var sb strings.Builder
	first := true
	for _, severity := range []types.Severity{types.SeverityRed, types.SeverityYellow} {
		for _, issue := range issues {
			if issue.Severity != severity {
				continue
			}
			if !first {
				sb.WriteString("\n")
			}
			first = false

			sb.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(string(issue.Severity)), issue.Title))
			if issue.Section != nil {
				sb.WriteString(fmt.Sprintf("  Section: %s\n", *issue.Section))
			}
			for _, line := range wrap(issue.Description, boxWidth-8) {
				sb.WriteString("  " + line + "\n")
			}
			if issue.EvidenceSnippet != nil {
				sb.WriteString(fmt.Sprintf("  Evidence: %q\n", truncate(*issue.EvidenceSnippet, 30)))
			}
		}
	}

	p.printBox(fmt.Sprintf("ISSUES (%d)", len(issues)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs the detected sections with their start lines.
func (p *Printer) PrintSections(detected []types.DetectedSection, unknown []types.UnknownHeading) {
	var sb strings.Builder
	if len(detected) == 0 {
		sb.WriteString("No template sections detected.\n")
	}
	for _, section := range detected {
		heading := section.CanonicalHeading
		if section.OriginalHeading != "" && !strings.EqualFold(section.OriginalHeading, heading) {
			heading += fmt.Sprintf(" (as %q)", section.OriginalHeading)
		}
		sb.WriteString(fmt.Sprintf("%4d  %s\n", section.StartLine, heading))
	}

	if len(unknown) > 0 {
		sb.WriteString("\nUnrecognized headings:\n")
		count := min(len(unknown), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("%4d  %s\n", unknown[i].Line, unknown[i].Text))
		}
		if len(unknown) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(unknown)-maxItemsToShow))
		}
	}

	p.printBox("DETECTED SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPublications outputs the first few harvested citations.
func (p *Printer) PrintPublications(pubs []types.Publication) {
	if len(pubs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Harvested %d citations:\n\n", len(pubs)))
	count := min(len(pubs), maxItemsToShow)
	for i := 0; i < count; i++ {
		pub := pubs[i]
		year := "n.d."
		if pub.Year != nil {
			year = fmt.Sprint(*pub.Year)
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", truncate(pub.Title, 40), year))
		sb.WriteString(fmt.Sprintf("    Confidence: %.2f\n", pub.Confidence))
	}
	if len(pubs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more", len(pubs)-maxItemsToShow))
	}

	p.printBox("PUBLICATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap splits text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) > width:
			lines = append(lines, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
