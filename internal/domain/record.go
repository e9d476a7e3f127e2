package domain

import "time"

// Outcome is the user's disposition toward a suggestion.
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeEdited   Outcome = "edited"
)

// Resolved reports whether the outcome has been set by the user.
func (o Outcome) Resolved() bool {
	return o == OutcomeAccepted || o == OutcomeRejected || o == OutcomeEdited
}

// Valid reports whether the value is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomePending || o.Resolved()
}

// SuggestionRecord captures one suggestion shown to the user together with the
// user's eventual response. Records are append-only: once the outcome is set
// the record never changes again.
type SuggestionRecord struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	RequestText      string    `json:"request"`
	SuggestedCommand string    `json:"command"`
	CommandCategory  string    `json:"category"`
	Platform         string    `json:"platform"`
	Outcome          Outcome   `json:"outcome"`
	// FinalCommand is set only for edited outcomes and holds the command the
	// user actually ran.
	FinalCommand string `json:"final_command,omitempty"`
}

// ValidateTransition checks an outcome update against the record's current
// state. Outcomes move pending -> {accepted, rejected, edited} exactly once.
func (r SuggestionRecord) ValidateTransition(next Outcome, finalCommand string) error {
	if r.Outcome.Resolved() {
		return ErrInvalidTransition
	}
	return ValidateOutcome(next, r.SuggestedCommand, finalCommand)
}

// ValidateOutcome checks that next is a legal resolution and that an edited
// outcome carries a final command distinct from the suggested one.
func ValidateOutcome(next Outcome, suggested, finalCommand string) error {
	if !next.Resolved() {
		return ErrInvalidTransition
	}
	if next == OutcomeEdited {
		if finalCommand == "" || finalCommand == suggested {
			return ErrInvalidTransition
		}
	} else if finalCommand != "" {
		return ErrInvalidTransition
	}
	return nil
}
