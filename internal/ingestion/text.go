package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	excessBlankLinesRegex = regexp.MustCompile(`\n\n\n+`)
	invisibleReplacer     = strings.NewReplacer(
		"\u00a0", " ",
		"\u200b", "",
		"\ufeff", "",
		"\x00", "",
	)
)

// CleanText normalizes extracted text without disturbing its layout: line
// endings become LF, invisible characters are dropped, trailing whitespace is
// trimmed and runs of blank lines shrink to one. Tabs and inner space runs are
// kept because tabular rows are split on them.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = invisibleReplacer.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	result := excessBlankLinesRegex.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(result, "\n")
}

// WriteOutput writes the extracted text and its metadata next to each other
// in outDir, named after the source document.
func WriteOutput(outDir string, text string, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(metadata.SourceName, filepath.Ext(metadata.SourceName))
	if base == "" {
		base = "biosketch"
	}

	textPath := filepath.Join(outDir, base+".extracted.txt")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write extracted text file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	metaPath := filepath.Join(outDir, base+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
