package storage

import "time"

// MatchRecord is a memoized matcher decision.
type MatchRecord struct {
	Key       string // sha256 over preset, lexicon, label, threshold and headings
	Preset    string
	Label     string
	Heading   string
	Rule      string
	Score     float64
	Matched   bool
	CreatedAt time.Time
}

// LinkRun records one link or reset pass over a dataset page.
type LinkRun struct {
	ID            string // UUID
	DatasetPageID string
	ReportPageID  string
	Style         string
	Reset         bool
	DryRun        bool
	Rows          int
	Linked        int
	Unmatched     int
	Skipped       int
	CreatedAt     time.Time
}
