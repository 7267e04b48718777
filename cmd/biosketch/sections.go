package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/biosketch-checker/internal/ingestion"
	"github.com/jonathan/biosketch-checker/internal/observability"
	"github.com/jonathan/biosketch-checker/internal/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "Show the sections detected in a biosketch",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

var sectionsJSON bool

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "Print sections as JSON")
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) error {
	template, err := loadTemplate()
	if err != nil {
		return err
	}
	doc, err := ingestion.IngestFromFile(args[0])
	if err != nil {
		return err
	}

	seg := sections.Segment(doc.Text, template)
	if sectionsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"sections":        seg.Sections,
			"unknownHeadings": seg.UnknownHeadings,
		})
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSections(seg.Sections, seg.UnknownHeadings)
	return nil
}
