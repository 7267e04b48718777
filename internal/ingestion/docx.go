package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBodyPath = "word/document.xml"

// ExtractDOCXText returns the raw text of a .docx body. Paragraphs end lines;
// table cells are separated by tabs and rows end lines.
func ExtractDOCXText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "not a zip archive", Cause: err}
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPath {
			body = f
			break
		}
	}
	if body == nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "missing " + docxBodyPath}
	}

	rc, err := body.Open()
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to open document body", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := readDocumentXML(rc)
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to read document body", Cause: err}
	}
	return text, nil
}

// readDocumentXML walks WordprocessingML tokens. Only the w: elements that
// carry text or layout breaks matter.
func readDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	cellDepth := 0

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			case "tc":
				cellDepth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cellDepth > 0 {
					sb.WriteString(" ")
				} else {
					sb.WriteString("\n")
				}
			case "tc":
				cellDepth--
				sb.WriteString("\t")
			case "tr":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
