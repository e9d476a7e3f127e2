package history

import (
	"errors"
	"testing"
	"time"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/ports"
)

func testRecord(request, command string) domain.SuggestionRecord {
	return domain.SuggestionRecord{
		RequestText:      request,
		SuggestedCommand: command,
		CommandCategory:  "file-listing",
		Platform:         "linux",
	}
}

// runStoreContract exercises the behavior every ports.HistoryStore backend
// must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) ports.HistoryStore) {
	t.Run("AppendAssignsMonotonicIDs", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		var last int64
		for i := 0; i < 3; i++ {
			id, err := store.Append(testRecord("list files", "ls"))
			if err != nil {
				t.Fatalf("Append error: %v", err)
			}
			if id <= last {
				t.Fatalf("id %d not greater than previous %d", id, last)
			}
			last = id
		}
	})

	t.Run("AppendDefaultsPendingOutcome", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, err := store.Append(testRecord("list files", "ls"))
		if err != nil {
			t.Fatalf("Append error: %v", err)
		}
		records, _, err := store.All()
		if err != nil {
			t.Fatalf("All error: %v", err)
		}
		if len(records) != 1 || records[0].ID != id {
			t.Fatalf("unexpected records: %+v", records)
		}
		if records[0].Outcome != domain.OutcomePending {
			t.Fatalf("outcome = %s, want pending", records[0].Outcome)
		}
		if records[0].Timestamp.IsZero() {
			t.Fatal("timestamp not assigned")
		}
	})

	t.Run("SetOutcomeResolvesPending", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, _ := store.Append(testRecord("list files", "ls"))
		if err := store.SetOutcome(id, domain.OutcomeAccepted, ""); err != nil {
			t.Fatalf("SetOutcome error: %v", err)
		}
		records, _, _ := store.All()
		if records[0].Outcome != domain.OutcomeAccepted {
			t.Fatalf("outcome = %s, want accepted", records[0].Outcome)
		}
	})

	t.Run("SetOutcomeEditedKeepsFinalCommand", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, _ := store.Append(testRecord("list files", "ls"))
		if err := store.SetOutcome(id, domain.OutcomeEdited, "ls -lah"); err != nil {
			t.Fatalf("SetOutcome error: %v", err)
		}
		records, _, _ := store.All()
		if records[0].Outcome != domain.OutcomeEdited || records[0].FinalCommand != "ls -lah" {
			t.Fatalf("unexpected edited record: %+v", records[0])
		}
	})

	t.Run("SetOutcomeUnknownID", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		err := store.SetOutcome(42, domain.OutcomeAccepted, "")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetOutcomeRejectsDoubleResolution", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, _ := store.Append(testRecord("list files", "ls"))
		if err := store.SetOutcome(id, domain.OutcomeRejected, ""); err != nil {
			t.Fatalf("first SetOutcome error: %v", err)
		}
		err := store.SetOutcome(id, domain.OutcomeAccepted, "")
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("SetOutcomeValidatesEditedFinalCommand", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		id, _ := store.Append(testRecord("list files", "ls"))
		if err := store.SetOutcome(id, domain.OutcomeEdited, ""); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("edited without final command: got %v", err)
		}
		if err := store.SetOutcome(id, domain.OutcomeEdited, "ls"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("edited with identical final command: got %v", err)
		}
		// Both rejections must leave the record pending and resolvable.
		if err := store.SetOutcome(id, domain.OutcomeAccepted, ""); err != nil {
			t.Fatalf("record should still be pending: %v", err)
		}
	})

	t.Run("IDsNotReusedAfterPrune", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		rec := testRecord("list files", "ls")
		rec.Timestamp = time.Now().UTC().Add(-time.Hour)
		first, err := store.Append(rec)
		if err != nil {
			t.Fatalf("Append error: %v", err)
		}

		pruned, err := store.Prune(time.Minute, 0)
		if err != nil {
			t.Fatalf("Prune error: %v", err)
		}
		if pruned != 1 {
			t.Fatalf("pruned = %d, want 1", pruned)
		}
		if records, _, _ := store.All(); len(records) != 0 {
			t.Fatalf("store not empty after prune: %d records", len(records))
		}

		// Ids stay strictly increasing even when the newest record was pruned;
		// a caller holding a stale id must never resolve a different record.
		second, err := store.Append(testRecord("show disk usage", "df -h"))
		if err != nil {
			t.Fatalf("Append after prune error: %v", err)
		}
		if second <= first {
			t.Fatalf("id %d reissued after prune, last issued was %d", second, first)
		}
	})

	t.Run("PruneByCountDropsOldest", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 15; i++ {
			rec := testRecord("list files", "ls")
			rec.Timestamp = base.Add(time.Duration(i) * time.Minute)
			if _, err := store.Append(rec); err != nil {
				t.Fatalf("Append error: %v", err)
			}
		}

		pruned, err := store.Prune(0, 10)
		if err != nil {
			t.Fatalf("Prune error: %v", err)
		}
		if pruned != 5 {
			t.Fatalf("pruned = %d, want 5", pruned)
		}
		records, _, _ := store.All()
		if len(records) != 10 {
			t.Fatalf("remaining = %d, want 10", len(records))
		}
		for _, rec := range records {
			if rec.Timestamp.Before(base.Add(5 * time.Minute)) {
				t.Fatalf("an older record survived pruning: %+v", rec)
			}
		}
	})

	t.Run("PruneByAge", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		old := testRecord("list files", "ls")
		old.Timestamp = time.Now().UTC().Add(-48 * time.Hour)
		fresh := testRecord("show disk usage", "df -h")
		fresh.Timestamp = time.Now().UTC()
		if _, err := store.Append(old); err != nil {
			t.Fatalf("Append error: %v", err)
		}
		if _, err := store.Append(fresh); err != nil {
			t.Fatalf("Append error: %v", err)
		}

		pruned, err := store.Prune(24*time.Hour, 0)
		if err != nil {
			t.Fatalf("Prune error: %v", err)
		}
		if pruned != 1 {
			t.Fatalf("pruned = %d, want 1", pruned)
		}
		records, _, _ := store.All()
		if len(records) != 1 || records[0].SuggestedCommand != "df -h" {
			t.Fatalf("wrong survivor: %+v", records)
		}
	})

	t.Run("PruneNothingToDo", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		if _, err := store.Append(testRecord("list files", "ls")); err != nil {
			t.Fatalf("Append error: %v", err)
		}
		pruned, err := store.Prune(24*time.Hour, 100)
		if err != nil {
			t.Fatalf("Prune error: %v", err)
		}
		if pruned != 0 {
			t.Fatalf("pruned = %d, want 0", pruned)
		}
	})
}
