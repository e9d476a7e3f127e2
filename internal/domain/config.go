package domain

import (
	"fmt"
	"time"
)

// Config mirrors ~/.alan/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Tracking            TrackingSettings  `yaml:"tracking"`
	Scoring             ScoringSettings   `yaml:"scoring"`
	Retention           RetentionSettings `yaml:"retention"`
	Security            SecuritySettings  `yaml:"security"`
}

// TrackingSettings controls whether and where suggestion history is recorded.
type TrackingSettings struct {
	Enabled bool `yaml:"enabled"`
	// Store selects the backend: "sqlite" (default) or "jsonl".
	Store string `yaml:"store"`
	// SnapshotTTLSeconds bounds how long read paths may reuse a cached scan
	// of the store. Zero disables the cache.
	SnapshotTTLSeconds int `yaml:"snapshot_ttl_seconds"`
}

// ScoringSettings are the confidence scorer's tunables. A zero value means
// "use the package default", so the prior cannot be configured to exactly 0.
type ScoringSettings struct {
	NeutralPrior        float64 `yaml:"neutral_prior"`
	MinSampleSize       int     `yaml:"min_sample_size"`
	RecencyHalfLifeDays int     `yaml:"recency_half_life_days"`
}

// RetentionSettings bound history growth. Zero values mean "no limit".
type RetentionSettings struct {
	MaxAgeDays int `yaml:"max_age_days"`
	MaxCount   int `yaml:"max_count"`
}

// SecuritySettings configure the dangerous-command guardrail.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// Store backends accepted by TrackingSettings.Store.
const (
	StoreSQLite = "sqlite"
	StoreJSONL  = "jsonl"
)

// RecencyHalfLife returns the configured half-life as a duration.
func (s ScoringSettings) RecencyHalfLife() time.Duration {
	return time.Duration(s.RecencyHalfLifeDays) * 24 * time.Hour
}

// MaxAge returns the configured retention age as a duration, zero when unset.
func (s RetentionSettings) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeDays) * 24 * time.Hour
}

// SnapshotTTL returns the snapshot cache lifetime, zero when disabled.
func (s TrackingSettings) SnapshotTTL() time.Duration {
	return time.Duration(s.SnapshotTTLSeconds) * time.Second
}

// Validate rejects configurations the core cannot honor.
func (c Config) Validate() error {
	if c.Tracking.Store != "" && c.Tracking.Store != StoreSQLite && c.Tracking.Store != StoreJSONL {
		return fmt.Errorf("tracking.store: unknown backend %q", c.Tracking.Store)
	}
	if c.Scoring.NeutralPrior < 0 || c.Scoring.NeutralPrior > 1 {
		return fmt.Errorf("scoring.neutral_prior: %v outside [0,1]", c.Scoring.NeutralPrior)
	}
	if c.Scoring.MinSampleSize < 0 {
		return fmt.Errorf("scoring.min_sample_size: must not be negative")
	}
	if c.Scoring.RecencyHalfLifeDays < 0 {
		return fmt.Errorf("scoring.recency_half_life_days: must not be negative")
	}
	if c.Retention.MaxAgeDays < 0 || c.Retention.MaxCount < 0 {
		return fmt.Errorf("retention: thresholds must not be negative")
	}
	return nil
}
