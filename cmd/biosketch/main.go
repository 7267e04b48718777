// Package main provides the biosketch command line tool: it checks NIH
// biosketches against the Common Form template, prints reports and drafts,
// and serves the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "biosketch",
	Short: "NIH biosketch compliance checker",
	Long: "biosketch infers the section structure of an NIH biographical sketch, checks it against the " +
		"Common Form template rules, and reconstructs a corrected draft.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
