package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/biosketch-checker/internal/db"
	"github.com/jonathan/biosketch-checker/internal/observability"
	"github.com/jonathan/biosketch-checker/internal/types"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage saved reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDelete,
}

var (
	reportsStatus string
	reportsLimit  int
	reportsJSON   bool
)

func init() {
	reportsListCmd.Flags().StringVar(&reportsStatus, "status", "", "Only list reports with this status: red, yellow or green")
	reportsListCmd.Flags().IntVar(&reportsLimit, "limit", db.DefaultListLimit, "Maximum number of reports")
	reportsShowCmd.Flags().BoolVar(&reportsJSON, "json", false, "Print the full report as JSON")
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}

// parseStatus validates a --status value.
func parseStatus(value string) (*types.Severity, error) {
	if value == "" {
		return nil, nil
	}
	status := types.Severity(value)
	switch status {
	case types.SeverityRed, types.SeverityYellow, types.SeverityGreen:
		return &status, nil
	}
	return nil, fmt.Errorf("invalid --status %q: use red, yellow or green", value)
}

func runReportsList(cmd *cobra.Command, _ []string) error {
	status, err := parseStatus(reportsStatus)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.ListReports(ctx, db.ListOptions{Status: status, Limit: reportsLimit})
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tISSUES\tSOURCE\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.OverallStatus, s.IssueCount, s.SourceName, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id: %w", err)
	}
	ctx := cmd.Context()
	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := store.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report not found: %s", id)
	}

	if reportsJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintReport(report)
	return nil
}

func runReportsDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id: %w", err)
	}
	ctx := cmd.Context()
	store, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteReport(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("report not found: %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", id)
	return nil
}
