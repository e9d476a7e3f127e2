package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Scoring defaults
const (
	// DefaultNeutralPrior is returned when no comparable history exists
	DefaultNeutralPrior = 0.5
	// DefaultMinSampleSize is the threshold below which a score is flagged low-sample
	DefaultMinSampleSize = 3
	// DefaultRecencyHalfLifeDays controls exponential decay of record weight
	DefaultRecencyHalfLifeDays = 30
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultSimilarLimit is the default number of similar commands to surface
	DefaultSimilarLimit = 5
	// DefaultRecentActivityLimit bounds the "recent activity" stats window
	DefaultRecentActivityLimit = 10
	// DefaultRetentionDays is the default age threshold for pruning
	DefaultRetentionDays = 90
	// DefaultRetentionCount is the default size threshold for pruning
	DefaultRetentionCount = 1000
)

// Snapshot cache
const (
	// DefaultSnapshotTTL is how long read paths may reuse a store scan
	DefaultSnapshotTTL = 2 * time.Second
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
