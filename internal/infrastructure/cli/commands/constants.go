package commands

// Version is the toolkit release string reported by the version command.
const Version = "0.1.0"

const (
	// DefaultHistoryLimit is the default number of history entries listed.
	DefaultHistoryLimit = 20
	// DefaultSimilarLimit is the default number of similar commands shown.
	DefaultSimilarLimit = 5
)
