// Package ingestion turns uploaded documents into plain text for the checker.
// It is the text-extraction collaborator: .txt, .md, .html and .docx are read
// exactly; PDF text is recovered from glyph positions and flagged low confidence.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format is a recognized document format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatUnknown  Format = "unknown"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Result is the extracted text of one document.
type Result struct {
	Text string
	// LowConfidence marks text whose layout could not be recovered exactly.
	LowConfidence bool
	Format        Format
	Metadata      *Metadata
}

// SupportedExtensions lists the upload extensions Extract accepts.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".html", ".htm", ".docx", ".pdf"}
}

// DetectFormat decides the format from the file extension, falling back to
// content sniffing when the extension is missing or unfamiliar.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text":
		return FormatText
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".docx":
		return FormatDOCX
	case ".pdf":
		return FormatPDF
	}

	detected := mimetype.Detect(data)
	switch {
	case detected.Is(docxMIME):
		return FormatDOCX
	case detected.Is("application/pdf"):
		return FormatPDF
	case detected.Is("text/html"):
		return FormatHTML
	case detected.Is("text/plain"):
		return FormatText
	}
	return FormatUnknown
}

// Extract returns the cleaned text of a document.
func Extract(filename string, data []byte) (*Result, error) {
	format := DetectFormat(filename, data)

	var text string
	var err error
	switch format {
	case FormatText, FormatMarkdown:
		text = string(data)
	case FormatHTML:
		text, err = ExtractHTMLText(data)
	case FormatDOCX:
		text, err = ExtractDOCXText(data)
	case FormatPDF:
		text, err = ExtractPDFText(data)
	default:
		return nil, &UnsupportedFormatError{Filename: filename, Format: mimetype.Detect(data).String()}
	}
	if err != nil {
		return nil, err
	}

	cleaned := CleanText(text)
	return &Result{
		Text:          cleaned,
		LowConfidence: format == FormatPDF,
		Format:        format,
		Metadata:      NewMetadata(filepath.Base(filename), format, cleaned),
	}, nil
}

// IngestFromFile reads and extracts a document from disk.
func IngestFromFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(path, data)
}
