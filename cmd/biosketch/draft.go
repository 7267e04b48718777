package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft <file>",
	Short: "Print the reconstructed biosketch draft",
	Long: "Reconstruct the biosketch in the Common Form and Supplement layout. The Markdown draft is " +
		"printed by default; --html prints the HTML draft and --pretty renders the Markdown for the terminal.",
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

var (
	draftHTML   bool
	draftPretty bool
	draftOut    string
)

func init() {
	draftCmd.Flags().BoolVar(&draftHTML, "html", false, "Output the HTML draft")
	draftCmd.Flags().BoolVar(&draftPretty, "pretty", false, "Render the Markdown draft for the terminal")
	draftCmd.Flags().StringVarP(&draftOut, "out", "o", "", "Write the draft to a file instead of stdout")
	draftCmd.MarkFlagsMutuallyExclusive("html", "pretty")
	rootCmd.AddCommand(draftCmd)
}

// renderPretty renders Markdown with a terminal style.
func renderPretty(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return renderer.Render(markdown)
}

func runDraft(cmd *cobra.Command, args []string) error {
	report, err := processFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	output := report.CorrectedDraftMarkdown
	switch {
	case draftHTML:
		output = report.CorrectedDraftHTML
	case draftPretty:
		if output, err = renderPretty(output); err != nil {
			return err
		}
	}

	if draftOut != "" {
		if err := os.WriteFile(draftOut, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write draft: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", draftOut)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}
