package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/infrastructure/history"
	"github.com/doeshing/alan-go/internal/pkg/logger"
)

func trackerConfig() domain.Config {
	return domain.Config{
		Tracking: domain.TrackingSettings{Enabled: true},
		Scoring: domain.ScoringSettings{
			NeutralPrior:        0.5,
			MinSampleSize:       3,
			RecencyHalfLifeDays: 30,
		},
	}
}

func newTestTracker(t *testing.T, cfg domain.Config) (*Tracker, *history.FileStore) {
	t.Helper()
	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return NewTracker(store, stubCategorizer{}, cfg, logger.NewStd(false)), store
}

func TestTrackerRecordAndScoreScenario(t *testing.T) {
	tracker, _ := newTestTracker(t, trackerConfig())

	id, err := tracker.RecordSuggestion("list files", "ls -la", "file-listing", "macOS")
	if err != nil {
		t.Fatalf("RecordSuggestion error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero tracking id")
	}
	if err := tracker.RecordOutcome(id, domain.OutcomeAccepted, ""); err != nil {
		t.Fatalf("RecordOutcome error: %v", err)
	}

	conf := tracker.Confidence("list the files", "file-listing", "macOS")
	if conf.Score <= 0.5 {
		t.Fatalf("expected confidence above neutral prior, got %v", conf.Score)
	}

	similar := tracker.Similar("list the files", "macOS", 5)
	if len(similar) != 1 {
		t.Fatalf("expected exactly one similar command, got %d", len(similar))
	}
	if similar[0].Command != "ls -la" || similar[0].Similarity <= 0 {
		t.Fatalf("unexpected similar match: %+v", similar[0])
	}
}

func TestTrackerDisabledIsNoOp(t *testing.T) {
	cfg := trackerConfig()
	cfg.Tracking.Enabled = false
	tracker, store := newTestTracker(t, cfg)

	id, err := tracker.RecordSuggestion("list files", "ls", "", "macOS")
	if err != nil || id != 0 {
		t.Fatalf("disabled tracking: got id %d, err %v", id, err)
	}
	if err := tracker.RecordOutcome(1, domain.OutcomeAccepted, ""); err != nil {
		t.Fatalf("disabled outcome recording should not error: %v", err)
	}
	records, _, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("disabled tracking must not write, found %d records", len(records))
	}
}

func TestTrackerDisabledReadsReturnDefaults(t *testing.T) {
	cfg := trackerConfig()
	cfg.Tracking.Enabled = false
	tracker, store := newTestTracker(t, cfg)

	// History recorded while tracking was on must not leak through reads
	// after it is turned off.
	id, err := store.Append(domain.SuggestionRecord{
		RequestText:      "list files",
		SuggestedCommand: "ls -la",
		CommandCategory:  "file-listing",
		Platform:         "macOS",
	})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := store.SetOutcome(id, domain.OutcomeAccepted, ""); err != nil {
		t.Fatalf("SetOutcome error: %v", err)
	}

	conf := tracker.Confidence("list files", "file-listing", "macOS")
	if conf.Score != 0.5 || !conf.LowSampleSize {
		t.Fatalf("expected neutral confidence with tracking off, got %+v", conf)
	}
	if similar := tracker.Similar("list files", "macOS", 5); len(similar) != 0 {
		t.Fatalf("expected no similar commands with tracking off, got %d", len(similar))
	}
	if stats := tracker.Stats(domain.StatsWindow{}); stats.TotalSuggestions != 0 {
		t.Fatalf("expected empty stats with tracking off, got %+v", stats)
	}
}

func TestTrackerFillsCategoryFromCategorizer(t *testing.T) {
	tracker, store := newTestTracker(t, trackerConfig())

	if _, err := tracker.RecordSuggestion("list files", "ls", "", "macOS"); err != nil {
		t.Fatalf("RecordSuggestion error: %v", err)
	}
	records, _, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if records[0].CommandCategory != "stub-category" {
		t.Fatalf("category = %q, want stub-category", records[0].CommandCategory)
	}
}

func TestTrackerReadsDegradeOnBrokenStore(t *testing.T) {
	broken := &brokenStore{}
	tracker := NewTracker(broken, stubCategorizer{}, trackerConfig(), logger.NewStd(false))

	conf := tracker.Confidence("list files", "file-listing", "macOS")
	if conf.Score != 0.5 || !conf.LowSampleSize {
		t.Fatalf("expected neutral degraded confidence, got %+v", conf)
	}
	if similar := tracker.Similar("list files", "macOS", 5); len(similar) != 0 {
		t.Fatalf("expected empty similar list, got %d", len(similar))
	}
	stats := tracker.Stats(domain.StatsWindow{})
	if stats.TotalSuggestions != 0 {
		t.Fatalf("expected empty stats view, got %+v", stats)
	}
}

func TestTrackerWriteFailureSurfacesPersistenceError(t *testing.T) {
	broken := &brokenStore{}
	tracker := NewTracker(broken, stubCategorizer{}, trackerConfig(), logger.NewStd(false))

	_, err := tracker.RecordSuggestion("list files", "ls", "", "macOS")
	if !domain.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestTrackerSnapshotCacheInvalidatedByWrites(t *testing.T) {
	cfg := trackerConfig()
	cfg.Tracking.SnapshotTTLSeconds = 60
	tracker, _ := newTestTracker(t, cfg)

	if got := tracker.Stats(domain.StatsWindow{}).TotalSuggestions; got != 0 {
		t.Fatalf("initial total = %d, want 0", got)
	}

	if _, err := tracker.RecordSuggestion("list files", "ls", "", "macOS"); err != nil {
		t.Fatalf("RecordSuggestion error: %v", err)
	}

	if got := tracker.Stats(domain.StatsWindow{}).TotalSuggestions; got != 1 {
		t.Fatalf("post-write total = %d, want 1 (stale snapshot served)", got)
	}
}

func TestTrackerMaintainUsesConfiguredRetention(t *testing.T) {
	cfg := trackerConfig()
	cfg.Retention = domain.RetentionSettings{MaxCount: 2}
	tracker, store := newTestTracker(t, cfg)

	for i := 0; i < 5; i++ {
		if _, err := tracker.RecordSuggestion("list files", "ls", "", "macOS"); err != nil {
			t.Fatalf("RecordSuggestion error: %v", err)
		}
	}

	pruned, err := tracker.Maintain(0, 0)
	if err != nil {
		t.Fatalf("Maintain error: %v", err)
	}
	if pruned != 3 {
		t.Fatalf("pruned = %d, want 3", pruned)
	}
	records, _, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("remaining = %d, want 2", len(records))
	}
}

type stubCategorizer struct{}

func (stubCategorizer) Categorize(string) string { return "stub-category" }

type brokenStore struct{}

func (b *brokenStore) Append(domain.SuggestionRecord) (int64, error) {
	return 0, &domain.PersistenceError{Op: "append", Err: errors.New("disk full")}
}

func (b *brokenStore) SetOutcome(int64, domain.Outcome, string) error {
	return &domain.PersistenceError{Op: "set outcome", Err: errors.New("disk full")}
}

func (b *brokenStore) All() ([]domain.SuggestionRecord, int, error) {
	return nil, 0, &domain.PersistenceError{Op: "scan", Err: errors.New("disk full")}
}

func (b *brokenStore) Prune(time.Duration, int) (int, error) {
	return 0, &domain.PersistenceError{Op: "prune", Err: errors.New("disk full")}
}

func (b *brokenStore) Path() string { return "broken" }
func (b *brokenStore) Close() error { return nil }
