package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for misuse of the outcome-recording contract. These are
// programming/integration errors and are surfaced to the caller as-is.
var (
	// ErrNotFound indicates the referenced record id does not exist.
	ErrNotFound = errors.New("history record not found")
	// ErrInvalidTransition indicates the record's outcome is already set or
	// the requested transition is malformed.
	ErrInvalidTransition = errors.New("invalid outcome transition")
)

// PersistenceError wraps failures of the backing store (disk full, permission
// denied, corrupt database). Callers treat the suggestion as untracked and
// carry on; tracking is an enhancement, not a prerequisite.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
