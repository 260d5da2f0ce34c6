package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MatchCacheRepo stores matcher decisions keyed by their inputs.
type MatchCacheRepo struct {
	db *sql.DB
}

// NewMatchCacheRepo creates a new MatchCacheRepo.
func NewMatchCacheRepo(db *sql.DB) *MatchCacheRepo {
	return &MatchCacheRepo{db: db}
}

// Get returns the record stored under key. Returns ErrNotFound if absent.
func (r *MatchCacheRepo) Get(ctx context.Context, key string) (*MatchRecord, error) {
	var rec MatchRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT key, preset, label, heading, rule, score, matched, created_at FROM match_cache WHERE key = ?",
		key,
	).Scan(&rec.Key, &rec.Preset, &rec.Label, &rec.Heading, &rec.Rule, &rec.Score, &rec.Matched, &rec.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match cache: %w", err)
	}
	return &rec, nil
}

// Put stores rec, replacing any record with the same key.
func (r *MatchCacheRepo) Put(ctx context.Context, rec *MatchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_cache (key, preset, label, heading, rule, score, matched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			heading = excluded.heading,
			rule = excluded.rule,
			score = excluded.score,
			matched = excluded.matched,
			created_at = excluded.created_at`,
		rec.Key, rec.Preset, rec.Label, rec.Heading, rec.Rule, rec.Score, rec.Matched, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store match: %w", err)
	}
	return nil
}

// DeleteBefore removes records created before t and returns how many were removed.
func (r *MatchCacheRepo) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM match_cache WHERE created_at < ?", t.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune match cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned matches: %w", err)
	}
	return n, nil
}
