package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/biosketch-checker/internal/types"
)

func sampleReport() *types.ValidationResult {
	return &types.ValidationResult{
		OverallStatus: types.SeverityRed,
		SourceName:    "rivera.docx",
		Template:      types.TemplateRef{Name: "NIH Biographical Sketch Common Form", Version: "2026.1"},
		Issues: []types.Issue{
			{
				ID:          "section-length",
				Severity:    types.SeverityYellow,
				Title:       "Personal Statement is short",
				Description: "The personal statement has fewer words than recommended.",
				Section:     types.StringPtr("Personal Statement"),
			},
			{
				ID:              "missing-certification",
				Severity:        types.SeverityRed,
				Title:           "Missing certification",
				Description:     "The certification statement was not found.",
				EvidenceSnippet: types.StringPtr("I certify that the information provided is current"),
			},
		},
		DetectedSections: []types.DetectedSection{{ID: "personal_statement"}},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "BIOSKETCH REPORT")
	assert.Contains(t, output, "rivera.docx")
	assert.Contains(t, output, "RED (not compliant)")
	assert.Contains(t, output, "1 red, 1 yellow")
	assert.Contains(t, output, "ISSUES (2)")
	assert.Less(t, strings.Index(output, "[RED] Missing certification"), strings.Index(output, "[YELLOW] Personal Statement"))
	assert.Contains(t, output, "Section: Personal Statement")
	assert.Contains(t, output, `Evidence: "I certify that the informat..."`)
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintReport_GreenHasNoIssueBox(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(&types.ValidationResult{OverallStatus: types.SeverityGreen})

	assert.Contains(t, buf.String(), "GREEN (compliant)")
	assert.NotContains(t, buf.String(), "ISSUES")
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	unknown := make([]types.UnknownHeading, 7)
	for i := range unknown {
		unknown[i] = types.UnknownHeading{Text: "Misc", Line: i + 1}
	}

	NewPrinter(&buf).PrintSections([]types.DetectedSection{
		{CanonicalHeading: "Personal Statement", OriginalHeading: "PERSONAL STATEMENT", StartLine: 3},
		{CanonicalHeading: "Honors", OriginalHeading: "Awards", StartLine: 9},
	}, unknown)
	output := buf.String()

	assert.Contains(t, output, "   3  Personal Statement ")
	assert.NotContains(t, output, `(as "PERSONAL STATEMENT")`)
	assert.Contains(t, output, `Honors (as "Awards")`)
	assert.Contains(t, output, "Unrecognized headings:")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintSections_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections(nil, nil)
	assert.Contains(t, buf.String(), "No template sections detected.")
}

func TestPrintPublications(t *testing.T) {
	year := 2021
	pubs := []types.Publication{
		{Title: "Neural circuits of memory", Year: &year, Confidence: 0.95},
		{Title: "Undated work", Confidence: 0.55},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintPublications(pubs)
	output := buf.String()

	assert.Contains(t, output, "Harvested 2 citations")
	assert.Contains(t, output, "• Neural circuits of memory (2021)")
	assert.Contains(t, output, "• Undated work (n.d.)")
	assert.Contains(t, output, "Confidence: 0.95")

	buf.Reset()
	NewPrinter(&buf).PrintPublications(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesFitWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("é", 100)+"\nshort")

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{name: "fits", text: "one two", width: 10, want: []string{"one two"}},
		{name: "breaks", text: "one two three", width: 7, want: []string{"one two", "three"}},
		{name: "long word kept", text: "extraordinarily", width: 5, want: []string{"extraordinarily"}},
		{name: "empty", text: "  ", width: 5, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width))
		})
	}
}
