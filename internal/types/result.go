package types

import (
	"time"

	"github.com/google/uuid"
)

// TemplateRef identifies the template a document was validated against.
type TemplateRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ValidationResult is the full report produced for one document.
type ValidationResult struct {
	ID                     uuid.UUID         `json:"id"`
	OverallStatus          Severity          `json:"overallStatus"`
	Issues                 []Issue           `json:"issues"`
	DetectedSections       []DetectedSection `json:"detectedSections"`
	BiosketchData          BiosketchData     `json:"biosketchData"`
	Publications           []Publication     `json:"publications"`
	CorrectedDraftMarkdown string            `json:"correctedDraftMarkdown"`
	CorrectedDraftHTML     string            `json:"correctedDraftHtml"`
	LowConfidence          bool              `json:"lowConfidence"`
	Template               TemplateRef       `json:"template"`
	DocumentHash           string            `json:"documentHash"`
	SourceName             string            `json:"sourceName,omitempty"`
	CreatedAt              time.Time         `json:"createdAt"`
}

// ReportSummary is a lightweight listing entry for stored reports.
type ReportSummary struct {
	ID            uuid.UUID `json:"id"`
	SourceName    string    `json:"sourceName,omitempty"`
	OverallStatus Severity  `json:"overallStatus"`
	IssueCount    int       `json:"issueCount"`
	TemplateName  string    `json:"templateName"`
	CreatedAt     time.Time `json:"createdAt"`
}
