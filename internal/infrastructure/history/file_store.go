package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/pkg/filesystem"
	"github.com/doeshing/alan-go/internal/ports"
)

// FileStore keeps suggestion records in an append-only JSONL log. "suggestion"
// lines carry a full record, "outcome" lines resolve an earlier record by id,
// and a "meta" line preserves the id high-water mark across compactions so
// pruned ids are never reissued. Readers fold the log; writers only append,
// except Prune which compacts the log atomically.
//
// A sidecar flock guards the file against a second concurrently-running
// instance, so two sessions never interleave a partial write.
type FileStore struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

const (
	kindSuggestion = "suggestion"
	kindOutcome    = "outcome"
	kindMeta       = "meta"
)

// logLine is the superset of both line kinds. Unknown fields in older or
// newer log versions are ignored on read, never rejected.
type logLine struct {
	Kind             string         `json:"kind"`
	ID               int64          `json:"id"`
	Timestamp        time.Time      `json:"timestamp"`
	RequestText      string         `json:"request,omitempty"`
	SuggestedCommand string         `json:"command,omitempty"`
	CommandCategory  string         `json:"category,omitempty"`
	Platform         string         `json:"platform,omitempty"`
	Outcome          domain.Outcome `json:"outcome,omitempty"`
	FinalCommand     string         `json:"final_command,omitempty"`
}

// DefaultLogPath returns ~/.alan/history/history.jsonl.
func DefaultLogPath() string {
	return filepath.Join(filesystem.UserHomeDir(), ".alan", "history", "history.jsonl")
}

// NewFileStore creates a JSONL-backed store at path; an empty path uses
// DefaultLogPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, &domain.PersistenceError{Op: "create history dir", Err: err}
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Append implements ports.HistoryStore.
func (f *FileStore) Append(record domain.SuggestionRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return 0, &domain.PersistenceError{Op: "append: lock", Err: err}
	}
	defer f.lock.Unlock()

	_, _, maxID, err := f.fold()
	if err != nil {
		return 0, err
	}

	record.ID = maxID + 1
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.Outcome == "" {
		record.Outcome = domain.OutcomePending
	}

	line := logLine{
		Kind:             kindSuggestion,
		ID:               record.ID,
		Timestamp:        record.Timestamp,
		RequestText:      record.RequestText,
		SuggestedCommand: record.SuggestedCommand,
		CommandCategory:  record.CommandCategory,
		Platform:         record.Platform,
		Outcome:          record.Outcome,
		FinalCommand:     record.FinalCommand,
	}
	if err := f.appendLine(line); err != nil {
		return 0, err
	}
	return record.ID, nil
}

// SetOutcome implements ports.HistoryStore.
func (f *FileStore) SetOutcome(id int64, outcome domain.Outcome, finalCommand string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return &domain.PersistenceError{Op: "set outcome: lock", Err: err}
	}
	defer f.lock.Unlock()

	records, _, _, err := f.fold()
	if err != nil {
		return err
	}
	var current *domain.SuggestionRecord
	for i := range records {
		if records[i].ID == id {
			current = &records[i]
			break
		}
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if err := current.ValidateTransition(outcome, finalCommand); err != nil {
		return err
	}

	return f.appendLine(logLine{
		Kind:         kindOutcome,
		ID:           id,
		Timestamp:    time.Now().UTC(),
		Outcome:      outcome,
		FinalCommand: finalCommand,
	})
}

// All implements ports.HistoryStore.
func (f *FileStore) All() ([]domain.SuggestionRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.RLock(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "scan: lock", Err: err}
	}
	defer f.lock.Unlock()

	records, skipped, _, err := f.fold()
	return records, skipped, err
}

// Prune implements ports.HistoryStore. The surviving records are rewritten as
// a compact log (resolved outcomes folded into their suggestion lines) via a
// temp file and atomic rename.
func (f *FileStore) Prune(maxAge time.Duration, maxCount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return 0, &domain.PersistenceError{Op: "prune: lock", Err: err}
	}
	defer f.lock.Unlock()

	records, _, maxID, err := f.fold()
	if err != nil {
		return 0, err
	}

	byAge := make([]domain.SuggestionRecord, len(records))
	copy(byAge, records)
	sort.SliceStable(byAge, func(i, j int) bool {
		if byAge[i].Timestamp.Equal(byAge[j].Timestamp) {
			return byAge[i].ID < byAge[j].ID
		}
		return byAge[i].Timestamp.Before(byAge[j].Timestamp)
	})

	drop := make(map[int64]bool)
	if maxAge > 0 {
		cutoff := time.Now().UTC().Add(-maxAge)
		for _, rec := range byAge {
			if rec.Timestamp.Before(cutoff) {
				drop[rec.ID] = true
			}
		}
	}
	if maxCount > 0 {
		remaining := len(records) - len(drop)
		for _, rec := range byAge {
			if remaining <= maxCount {
				break
			}
			if !drop[rec.ID] {
				drop[rec.ID] = true
				remaining--
			}
		}
	}
	if len(drop) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	if maxID > 0 {
		// Carry the high-water mark so ids of pruned records are not reissued.
		data, err := json.Marshal(logLine{Kind: kindMeta, ID: maxID})
		if err != nil {
			return 0, &domain.PersistenceError{Op: "prune: encode", Err: err}
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	for _, rec := range records {
		if drop[rec.ID] {
			continue
		}
		data, err := json.Marshal(logLine{
			Kind:             kindSuggestion,
			ID:               rec.ID,
			Timestamp:        rec.Timestamp,
			RequestText:      rec.RequestText,
			SuggestedCommand: rec.SuggestedCommand,
			CommandCategory:  rec.CommandCategory,
			Platform:         rec.Platform,
			Outcome:          rec.Outcome,
			FinalCommand:     rec.FinalCommand,
		})
		if err != nil {
			return 0, &domain.PersistenceError{Op: "prune: encode", Err: err}
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return 0, &domain.PersistenceError{Op: "prune: write", Err: err}
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return 0, &domain.PersistenceError{Op: "prune: rename", Err: err}
	}
	return len(drop), nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op for the file store; every operation opens and closes the
// log itself.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) appendLine(line logLine) error {
	data, err := json.Marshal(line)
	if err != nil {
		return &domain.PersistenceError{Op: "append: encode", Err: err}
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &domain.PersistenceError{Op: "append: open", Err: err}
	}
	defer file.Close()
	if _, err := file.Write(append(data, '\n')); err != nil {
		return &domain.PersistenceError{Op: "append: write", Err: err}
	}
	return nil
}

// fold replays the log into the current record set. Malformed lines and
// outcome lines that violate the transition contract are skipped and counted;
// unknown line kinds are ignored for forward compatibility.
func (f *FileStore) fold() (records []domain.SuggestionRecord, skipped int, maxID int64, err error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, 0, nil
		}
		return nil, 0, 0, &domain.PersistenceError{Op: "scan: open", Err: err}
	}
	defer file.Close()

	index := make(map[int64]int)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var line logLine
		if err := json.Unmarshal(raw, &line); err != nil {
			skipped++
			continue
		}
		switch line.Kind {
		case kindSuggestion:
			if line.ID <= 0 || line.SuggestedCommand == "" || !line.Outcome.Valid() {
				skipped++
				continue
			}
			if _, dup := index[line.ID]; dup {
				skipped++
				continue
			}
			records = append(records, domain.SuggestionRecord{
				ID:               line.ID,
				Timestamp:        line.Timestamp,
				RequestText:      line.RequestText,
				SuggestedCommand: line.SuggestedCommand,
				CommandCategory:  line.CommandCategory,
				Platform:         line.Platform,
				Outcome:          line.Outcome,
				FinalCommand:     line.FinalCommand,
			})
			index[line.ID] = len(records) - 1
			if line.ID > maxID {
				maxID = line.ID
			}
		case kindOutcome:
			i, ok := index[line.ID]
			if !ok {
				skipped++
				continue
			}
			if err := records[i].ValidateTransition(line.Outcome, line.FinalCommand); err != nil {
				skipped++
				continue
			}
			records[i].Outcome = line.Outcome
			records[i].FinalCommand = line.FinalCommand
		case kindMeta:
			if line.ID > maxID {
				maxID = line.ID
			}
		default:
			// Future line kinds pass through silently.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, &domain.PersistenceError{Op: "scan: read", Err: err}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, skipped, maxID, nil
}

var _ ports.HistoryStore = (*FileStore)(nil)
