package services

import (
	"sort"

	"github.com/doeshing/alan-go/internal/domain"
)

// Aggregator computes summary views over a history snapshot. Summarize is a
// pure function of its inputs: it never mutates the records and identical
// input always yields identical output.
type Aggregator struct {
	// RecentLimit bounds the "recent activity" window in the view.
	RecentLimit int
}

// NewAggregator returns an aggregator with the default recent-activity bound.
func NewAggregator() *Aggregator {
	return &Aggregator{RecentLimit: domain.DefaultRecentActivityLimit}
}

// Summarize builds the aggregate view, restricted by window when non-zero.
// The skipped count is carried through so callers can surface it.
func (a *Aggregator) Summarize(records []domain.SuggestionRecord, skipped int, window domain.StatsWindow) domain.AggregateStats {
	filtered := applyWindow(records, window)

	stats := domain.AggregateStats{
		TotalSuggestions: len(filtered),
		SkippedRecords:   skipped,
	}

	byCategory := make(map[string]*domain.CategoryStats)
	for _, rec := range filtered {
		switch rec.Outcome {
		case domain.OutcomeAccepted:
			stats.Accepted++
		case domain.OutcomeRejected:
			stats.Rejected++
		case domain.OutcomeEdited:
			stats.Edited++
		default:
			stats.Pending++
		}

		cat := byCategory[rec.CommandCategory]
		if cat == nil {
			cat = &domain.CategoryStats{Category: rec.CommandCategory}
			byCategory[rec.CommandCategory] = cat
		}
		cat.Total++
		switch rec.Outcome {
		case domain.OutcomeAccepted:
			cat.Accepted++
		case domain.OutcomeRejected:
			cat.Rejected++
		case domain.OutcomeEdited:
			cat.Edited++
		}
	}

	stats.AcceptanceRate = acceptanceRate(stats.Accepted, stats.Rejected, stats.Edited)

	stats.Categories = make([]domain.CategoryStats, 0, len(byCategory))
	for _, cat := range byCategory {
		cat.AcceptanceRate = acceptanceRate(cat.Accepted, cat.Rejected, cat.Edited)
		stats.Categories = append(stats.Categories, *cat)
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		if stats.Categories[i].Total == stats.Categories[j].Total {
			return stats.Categories[i].Category < stats.Categories[j].Category
		}
		return stats.Categories[i].Total > stats.Categories[j].Total
	})

	limit := a.RecentLimit
	if limit <= 0 {
		limit = domain.DefaultRecentActivityLimit
	}
	start := len(filtered) - limit
	if start < 0 {
		start = 0
	}
	stats.Recent = append([]domain.SuggestionRecord(nil), filtered[start:]...)

	return stats
}

// applyWindow restricts records to a time range and/or the most recent N.
// Records arrive ordered by id ascending and leave in the same order.
func applyWindow(records []domain.SuggestionRecord, window domain.StatsWindow) []domain.SuggestionRecord {
	if window.IsZero() {
		return records
	}
	filtered := records
	if !window.Since.IsZero() || !window.Until.IsZero() {
		filtered = nil
		for _, rec := range records {
			if !window.Since.IsZero() && rec.Timestamp.Before(window.Since) {
				continue
			}
			if !window.Until.IsZero() && rec.Timestamp.After(window.Until) {
				continue
			}
			filtered = append(filtered, rec)
		}
	}
	if window.LastN > 0 && len(filtered) > window.LastN {
		filtered = filtered[len(filtered)-window.LastN:]
	}
	return filtered
}

func acceptanceRate(accepted, rejected, edited int) float64 {
	resolved := accepted + rejected + edited
	if resolved == 0 {
		return 0
	}
	return float64(accepted) / float64(resolved)
}
