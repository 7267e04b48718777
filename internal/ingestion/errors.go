package ingestion

import "fmt"

// UnsupportedFormatError represents an upload whose format has no text extractor
type UnsupportedFormatError struct {
	Filename string
	Format   string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("unsupported document format %s for %s", e.Format, e.Filename)
	}
	return fmt.Sprintf("unsupported document format for %s", e.Filename)
}

// ExtractionError represents a document that could not be turned into text
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
