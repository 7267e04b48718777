package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/biosketch-checker/internal/types"
)

// SaveReport stores a report, replacing any report with the same ID.
func (db *DB) SaveReport(ctx context.Context, report *types.ValidationResult) error {
	if report == nil || report.ID == uuid.Nil {
		return fmt.Errorf("failed to save report: missing id")
	}
	content, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, source_name, overall_status, issue_count, template_name,
		                      template_version, document_hash, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     source_name = $2, overall_status = $3, issue_count = $4, template_name = $5,
		     template_version = $6, document_hash = $7, report = $8`,
		report.ID, report.SourceName, string(report.OverallStatus), len(report.Issues),
		report.Template.Name, report.Template.Version, report.DocumentHash, content, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport retrieves a report by ID. It returns nil, nil when no report exists.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*types.ValidationResult, error) {
	var content []byte
	err := db.pool.QueryRow(ctx, `SELECT report FROM reports WHERE id = $1`, id).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}

	var report types.ValidationResult
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// listQuery builds the listing statement and its arguments.
func listQuery(opts ListOptions) (string, []any) {
	opts = opts.normalized()
	query := `SELECT id, source_name, overall_status, issue_count, template_name, created_at
	          FROM reports
	          WHERE TRUE`
	var args []any
	argPos := 1

	if opts.Status != nil {
		query += fmt.Sprintf(" AND overall_status = $%d", argPos)
		args = append(args, string(*opts.Status))
		argPos++
	}
	if opts.DocumentHash != "" {
		query += fmt.Sprintf(" AND document_hash = $%d", argPos)
		args = append(args, opts.DocumentHash)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, opts.Limit, opts.Offset)
	return query, args
}

// ListReports returns report summaries, newest first.
func (db *DB) ListReports(ctx context.Context, opts ListOptions) ([]types.ReportSummary, error) {
	query, args := listQuery(opts)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	summaries := []types.ReportSummary{}
	for rows.Next() {
		var s types.ReportSummary
		var status string
		if err := rows.Scan(&s.ID, &s.SourceName, &status, &s.IssueCount, &s.TemplateName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		s.OverallStatus = types.Severity(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return summaries, nil
}

// DeleteReport removes a report. It reports whether a row was deleted.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
