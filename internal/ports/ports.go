// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The tracking core depends on these abstractions only; concrete adapters live
// in the infrastructure layer. This keeps every component independently
// testable with stubs and lets the store backend be swapped without touching
// the services.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/alan-go/internal/domain"
)

// HistoryStore owns the persisted suggestion record set. It is the only
// component allowed to mutate records; everything else reads snapshots.
type HistoryStore interface {
	// Append assigns the next id, stamps the timestamp if absent, persists
	// the record and returns the id. Failures are *domain.PersistenceError.
	Append(record domain.SuggestionRecord) (int64, error)

	// SetOutcome resolves a pending record. Returns domain.ErrNotFound for an
	// unknown id and domain.ErrInvalidTransition when the outcome is already
	// set or the transition is malformed.
	SetOutcome(id int64, outcome domain.Outcome, finalCommand string) error

	// All returns every readable record ordered by id ascending, plus the
	// count of malformed entries that were skipped. One bad entry never makes
	// the whole history inaccessible.
	All() (records []domain.SuggestionRecord, skipped int, err error)

	// Prune permanently removes records older than maxAge or beyond maxCount
	// (oldest first); a record violating either threshold goes. Zero values
	// disable the corresponding threshold. Returns the number removed.
	Prune(maxAge time.Duration, maxCount int) (int, error)

	// Path returns the backing store location, for diagnostics.
	Path() string

	Close() error
}

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.alan/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Categorizer assigns a coarse command category to a request text. The core
// treats the classification as opaque.
type Categorizer interface {
	Categorize(requestText string) string
}

// SecurityService evaluates command strings against the static dangerous
// pattern list.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
