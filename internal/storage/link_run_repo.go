package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LinkRunRepo records link and reset passes.
type LinkRunRepo struct {
	db *sql.DB
}

// NewLinkRunRepo creates a new LinkRunRepo.
func NewLinkRunRepo(db *sql.DB) *LinkRunRepo {
	return &LinkRunRepo{db: db}
}

// Create inserts run, assigning an ID and timestamp when they are unset.
func (r *LinkRunRepo) Create(ctx context.Context, run *LinkRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO link_runs (id, dataset_page_id, report_page_id, style, reset, dry_run, rows, linked, unmatched, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DatasetPageID, run.ReportPageID, run.Style, run.Reset, run.DryRun,
		run.Rows, run.Linked, run.Unmatched, run.Skipped, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *LinkRunRepo) ListRecent(ctx context.Context, limit int) ([]LinkRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dataset_page_id, report_page_id, style, reset, dry_run, rows, linked, unmatched, skipped, created_at
		FROM link_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query link runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []LinkRun{}
	for rows.Next() {
		var run LinkRun
		if err := rows.Scan(&run.ID, &run.DatasetPageID, &run.ReportPageID, &run.Style, &run.Reset, &run.DryRun,
			&run.Rows, &run.Linked, &run.Unmatched, &run.Skipped, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}
