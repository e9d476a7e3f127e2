package domain

import "time"

// StatsWindow restricts aggregation to the most recent LastN records and/or a
// time range. The zero value means "everything".
type StatsWindow struct {
	LastN int
	Since time.Time
	Until time.Time
}

// IsZero reports whether the window imposes no restriction.
func (w StatsWindow) IsZero() bool {
	return w.LastN == 0 && w.Since.IsZero() && w.Until.IsZero()
}

// CategoryStats is the per-category slice of the aggregate view.
type CategoryStats struct {
	Category       string  `json:"category"`
	Total          int     `json:"total"`
	Accepted       int     `json:"accepted"`
	Rejected       int     `json:"rejected"`
	Edited         int     `json:"edited"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// AggregateStats is a derived view over the history store. It is recomputed
// on every request and has no independent lifecycle.
type AggregateStats struct {
	TotalSuggestions int                `json:"total_suggestions"`
	Pending          int                `json:"pending"`
	Accepted         int                `json:"accepted"`
	Rejected         int                `json:"rejected"`
	Edited           int                `json:"edited"`
	AcceptanceRate   float64            `json:"acceptance_rate"`
	Categories       []CategoryStats    `json:"categories"`
	Recent           []SuggestionRecord `json:"recent"`
	// SkippedRecords counts malformed store entries that were ignored while
	// scanning, surfaced so callers can warn without failing.
	SkippedRecords int `json:"skipped_records,omitempty"`
}

// Confidence pairs the numeric score with a low-sample flag so the caller can
// de-emphasize a number derived from too little history.
type Confidence struct {
	Score         float64 `json:"score"`
	LowSampleSize bool    `json:"low_sample_size"`
}

// SimilarCommand is one entry of the "similar commands you've accepted" view.
type SimilarCommand struct {
	Command    string  `json:"command"`
	Request    string  `json:"request"`
	Similarity float64 `json:"similarity"`
}
