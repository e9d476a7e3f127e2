package services

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/ports"
)

const snapshotKey = "records"

type snapshot struct {
	records []domain.SuggestionRecord
	skipped int
}

// Tracker is the facade the surrounding assistant talks to. Writes go through
// the history store and raise distinct error kinds; reads degrade gracefully
// to empty or neutral results because tracking is an enhancement, never a
// prerequisite for presenting a suggestion.
type Tracker struct {
	store       ports.HistoryStore
	categorizer ports.Categorizer
	matcher     *Matcher
	scorer      *Scorer
	aggregator  *Aggregator
	logger      ports.Logger

	tracking  domain.TrackingSettings
	retention domain.RetentionSettings

	// snapshots caches the folded store scan for a short TTL so a burst of
	// read calls (score + similar + stats for one suggestion) does not rescan
	// the store. Every write drops the cache.
	snapshots *ttlcache.Cache[string, snapshot]
}

// NewTracker wires the tracking core against a store.
func NewTracker(store ports.HistoryStore, categorizer ports.Categorizer, cfg domain.Config, logger ports.Logger) *Tracker {
	matcher := NewMatcher()
	t := &Tracker{
		store:       store,
		categorizer: categorizer,
		matcher:     matcher,
		scorer:      NewScorer(matcher, cfg.Scoring),
		aggregator:  NewAggregator(),
		logger:      logger,
		tracking:    cfg.Tracking,
		retention:   cfg.Retention,
	}
	if ttl := cfg.Tracking.SnapshotTTL(); ttl > 0 {
		t.snapshots = ttlcache.New[string, snapshot](
			ttlcache.WithTTL[string, snapshot](ttl),
			ttlcache.WithDisableTouchOnHit[string, snapshot](),
		)
	}
	return t
}

// RecordSuggestion persists a new pending record and returns its id. With
// tracking disabled it is a no-op returning id 0. An empty category is filled
// in by the categorizer.
func (t *Tracker) RecordSuggestion(requestText, suggestedCommand, category, platform string) (int64, error) {
	if !t.tracking.Enabled {
		return 0, nil
	}
	if category == "" && t.categorizer != nil {
		category = t.categorizer.Categorize(requestText)
	}
	id, err := t.store.Append(domain.SuggestionRecord{
		RequestText:      requestText,
		SuggestedCommand: suggestedCommand,
		CommandCategory:  category,
		Platform:         platform,
		Outcome:          domain.OutcomePending,
	})
	if err != nil {
		return 0, err
	}
	t.invalidate()
	t.logger.Debug("recorded suggestion", map[string]interface{}{"id": id, "category": category})
	return id, nil
}

// RecordOutcome resolves a pending record. finalCommand is required for (and
// only for) edited outcomes.
func (t *Tracker) RecordOutcome(id int64, outcome domain.Outcome, finalCommand string) error {
	if !t.tracking.Enabled {
		return nil
	}
	if err := t.store.SetOutcome(id, outcome, finalCommand); err != nil {
		return err
	}
	t.invalidate()
	return nil
}

// Confidence estimates how likely the user is to accept a suggestion for this
// request/category/platform. Disabled tracking and store failures both degrade
// to the neutral prior.
func (t *Tracker) Confidence(requestText, category, platform string) domain.Confidence {
	if !t.tracking.Enabled {
		return domain.Confidence{Score: t.scorer.NeutralPrior, LowSampleSize: true}
	}
	snap, ok := t.load()
	if !ok {
		return domain.Confidence{Score: t.scorer.NeutralPrior, LowSampleSize: true}
	}
	return t.scorer.Score(snap.records, requestText, category, platform)
}

// Similar surfaces previously accepted commands for requests lexically close
// to this one. Disabled tracking and store failures both degrade to an empty
// list.
func (t *Tracker) Similar(requestText, platform string, maxResults int) []domain.SimilarCommand {
	if !t.tracking.Enabled {
		return nil
	}
	if maxResults <= 0 {
		maxResults = domain.DefaultSimilarLimit
	}
	snap, ok := t.load()
	if !ok {
		return nil
	}
	matches := t.matcher.FindSimilar(snap.records, requestText, platform, maxResults)
	similar := make([]domain.SimilarCommand, 0, len(matches))
	for _, m := range matches {
		similar = append(similar, domain.SimilarCommand{
			Command:    m.Record.SuggestedCommand,
			Request:    m.Record.RequestText,
			Similarity: m.Similarity,
		})
	}
	return similar
}

// Stats recomputes the aggregate view from the store's current content.
// Disabled tracking reports the empty view.
func (t *Tracker) Stats(window domain.StatsWindow) domain.AggregateStats {
	if !t.tracking.Enabled {
		return domain.AggregateStats{}
	}
	snap, ok := t.load()
	if !ok {
		return domain.AggregateStats{}
	}
	return t.aggregator.Summarize(snap.records, snap.skipped, window)
}

// Maintain prunes records violating either threshold; zero arguments fall
// back to the configured retention policy. Pruning only ever runs through
// this explicit call.
func (t *Tracker) Maintain(maxAge time.Duration, maxCount int) (int, error) {
	if maxAge == 0 && maxCount == 0 {
		maxAge = t.retention.MaxAge()
		maxCount = t.retention.MaxCount
	}
	pruned, err := t.store.Prune(maxAge, maxCount)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		t.invalidate()
		t.logger.Info("pruned history", map[string]interface{}{"removed": pruned})
	}
	return pruned, nil
}

// Categorize exposes the categorizer for callers that present the category
// before recording.
func (t *Tracker) Categorize(requestText string) string {
	if t.categorizer == nil {
		return ""
	}
	return t.categorizer.Categorize(requestText)
}

func (t *Tracker) load() (snapshot, bool) {
	if t.snapshots != nil {
		if item := t.snapshots.Get(snapshotKey); item != nil {
			return item.Value(), true
		}
	}
	records, skipped, err := t.store.All()
	if err != nil {
		t.logger.Warn("history unavailable", map[string]interface{}{"error": err.Error()})
		return snapshot{}, false
	}
	if skipped > 0 {
		t.logger.Warn("skipped malformed history entries", map[string]interface{}{"count": skipped})
	}
	snap := snapshot{records: records, skipped: skipped}
	if t.snapshots != nil {
		t.snapshots.Set(snapshotKey, snap, ttlcache.DefaultTTL)
	}
	return snap, true
}

func (t *Tracker) invalidate() {
	if t.snapshots != nil {
		t.snapshots.DeleteAll()
	}
}
