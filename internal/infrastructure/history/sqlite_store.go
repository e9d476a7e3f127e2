// Package history provides the persistent suggestion record stores.
//
// Two backends implement ports.HistoryStore: a SQLite database (default) and
// an append-only JSONL log. Both survive process restarts and guard against
// a second concurrently-running instance interleaving a partial write.
package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/pkg/filesystem"
	"github.com/doeshing/alan-go/internal/ports"
)

// timeLayout is RFC 3339 with fixed-width fractional seconds. RFC3339Nano
// strips trailing zeros, which breaks the lexical string comparisons the
// prune queries rely on for sub-second timestamps.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists suggestion records in a SQLite database. SQLite's own
// locking provides the cross-process mutual exclusion required for two
// simultaneous terminal sessions sharing one history file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultDBPath returns ~/.alan/history/history.db.
func DefaultDBPath() string {
	return filepath.Join(filesystem.UserHomeDir(), ".alan", "history", "history.db")
}

// NewSQLiteStore opens (or creates) the database at path; an empty path uses
// DefaultDBPath.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = DefaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, &domain.PersistenceError{Op: "create history dir", Err: err}
	}

	dsn := "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "open database", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &domain.PersistenceError{Op: "ping database", Err: err}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, &domain.PersistenceError{Op: "init schema", Err: err}
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		request TEXT NOT NULL,
		command TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT 'pending',
		final_command TEXT NOT NULL DEFAULT ''
	);`)
	return err
}

// Append implements ports.HistoryStore.
func (s *SQLiteStore) Append(record domain.SuggestionRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.Outcome == "" {
		record.Outcome = domain.OutcomePending
	}

	result, err := s.db.Exec(`INSERT INTO suggestions
		(timestamp, request, command, category, platform, outcome, final_command)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.UTC().Format(timeLayout),
		record.RequestText,
		record.SuggestedCommand,
		record.CommandCategory,
		record.Platform,
		string(record.Outcome),
		record.FinalCommand,
	)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append: last insert id", Err: err}
	}
	return id, nil
}

// SetOutcome implements ports.HistoryStore.
func (s *SQLiteStore) SetOutcome(id int64, outcome domain.Outcome, finalCommand string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return &domain.PersistenceError{Op: "set outcome: begin", Err: err}
	}
	defer tx.Rollback()

	var current domain.SuggestionRecord
	var currentOutcome string
	row := tx.QueryRow(`SELECT command, outcome FROM suggestions WHERE id = ?`, id)
	if err := row.Scan(&current.SuggestedCommand, &currentOutcome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return &domain.PersistenceError{Op: "set outcome: load", Err: err}
	}
	current.Outcome = domain.Outcome(currentOutcome)

	if err := current.ValidateTransition(outcome, finalCommand); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE suggestions SET outcome = ?, final_command = ? WHERE id = ?`,
		string(outcome), finalCommand, id); err != nil {
		return &domain.PersistenceError{Op: "set outcome: update", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "set outcome: commit", Err: err}
	}
	return nil
}

// All implements ports.HistoryStore. Rows that fail to scan or carry an
// unparseable timestamp are skipped and counted, never fatal.
func (s *SQLiteStore) All() ([]domain.SuggestionRecord, int, error) {
	rows, err := s.db.Query(`SELECT id, timestamp, request, command, category, platform, outcome, final_command
		FROM suggestions ORDER BY id ASC`)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "scan", Err: err}
	}
	defer rows.Close()

	var records []domain.SuggestionRecord
	skipped := 0
	for rows.Next() {
		var rec domain.SuggestionRecord
		var ts, outcome string
		if err := rows.Scan(&rec.ID, &ts, &rec.RequestText, &rec.SuggestedCommand,
			&rec.CommandCategory, &rec.Platform, &outcome, &rec.FinalCommand); err != nil {
			skipped++
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			skipped++
			continue
		}
		rec.Timestamp = parsed
		rec.Outcome = domain.Outcome(outcome)
		if !rec.Outcome.Valid() {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "scan", Err: err}
	}
	return records, skipped, nil
}

// Prune implements ports.HistoryStore. A record violating either threshold is
// removed; the oldest by timestamp go first when trimming to maxCount.
func (s *SQLiteStore) Prune(maxAge time.Duration, maxCount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "prune: begin", Err: err}
	}
	defer tx.Rollback()

	pruned := 0
	if maxAge > 0 {
		cutoff := time.Now().UTC().Add(-maxAge).Format(timeLayout)
		result, err := tx.Exec(`DELETE FROM suggestions WHERE timestamp < ?`, cutoff)
		if err != nil {
			return 0, &domain.PersistenceError{Op: "prune: by age", Err: err}
		}
		if n, err := result.RowsAffected(); err == nil {
			pruned += int(n)
		}
	}
	if maxCount > 0 {
		var total int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM suggestions`).Scan(&total); err != nil {
			return 0, &domain.PersistenceError{Op: "prune: count", Err: err}
		}
		if excess := total - maxCount; excess > 0 {
			result, err := tx.Exec(`DELETE FROM suggestions WHERE id IN (
				SELECT id FROM suggestions ORDER BY timestamp ASC, id ASC LIMIT ?)`, excess)
			if err != nil {
				return 0, &domain.PersistenceError{Op: "prune: by count", Err: err}
			}
			if n, err := result.RowsAffected(); err == nil {
				pruned += int(n)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, &domain.PersistenceError{Op: "prune: commit", Err: err}
	}
	return pruned, nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ ports.HistoryStore = (*SQLiteStore)(nil)
