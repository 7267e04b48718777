package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/biosketch-checker/internal/observability"
	"github.com/jonathan/biosketch-checker/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a biosketch against the template rules",
	Long: "Extract the text of a .txt, .md, .html or .docx biosketch, check it against the template rules " +
		"and print the report. With --out-dir the report and both drafts are written to files.",
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateJSON   bool
	validateOutDir string
	validateSave   bool
	validateFailOn string
)

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON")
	validateCmd.Flags().StringVarP(&validateOutDir, "out-dir", "o", "", "Directory for the report and drafts (overrides out_dir)")
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "Save the report to the database")
	validateCmd.Flags().StringVar(&validateFailOn, "fail-on", "none", "Exit non-zero at this status or worse: red, yellow or none")
	rootCmd.AddCommand(validateCmd)
}

// failsAt reports whether status is at or worse than threshold.
func failsAt(status types.Severity, threshold string) (bool, error) {
	switch strings.ToLower(threshold) {
	case "", "none":
		return false, nil
	case "red":
		return status == types.SeverityRed, nil
	case "yellow":
		return status == types.SeverityRed || status == types.SeverityYellow, nil
	default:
		return false, fmt.Errorf("invalid --fail-on value %q: use red, yellow or none", threshold)
	}
}

// writeArtifacts writes <base>.report.json, <base>.draft.md and <base>.draft.html.
func writeArtifacts(outDir, source string, report *types.ValidationResult) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{base + ".report.json", reportJSON},
		{base + ".draft.md", []byte(report.CorrectedDraftMarkdown)},
		{base + ".draft.html", []byte(report.CorrectedDraftHTML)},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := os.WriteFile(path, f.content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := failsAt(types.SeverityGreen, validateFailOn); err != nil {
		return err
	}

	ctx := cmd.Context()
	report, err := processFile(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		printer := observability.NewPrinter(out)
		printer.PrintReport(report)
		if app.cfg.Verbose {
			printer.PrintPublications(report.Publications)
		}
	}

	outDir := app.cfg.OutDir
	if validateOutDir != "" {
		outDir = validateOutDir
	}
	if outDir != "" {
		paths, err := writeArtifacts(outDir, args[0], report)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		}
	}

	if validateSave {
		store, err := connectStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReport(ctx, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved report %s\n", report.ID)
	}

	failed, _ := failsAt(report.OverallStatus, validateFailOn)
	if failed {
		return fmt.Errorf("document status is %s", report.OverallStatus)
	}
	return nil
}
