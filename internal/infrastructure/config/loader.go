// Package config loads the YAML configuration consumed by the tracking core.
// All settings are read-only inputs; the core never writes them back.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/pkg/filesystem"
	"github.com/doeshing/alan-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.alan/config.yaml (overridable
// via ALAN_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader; path overrides the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created with
// defaults; a present file is hydrated so absent fields keep their defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	var seen presence
	if err := yaml.Unmarshal(data, &seen); err != nil {
		return domain.Config{}, err
	}
	cfg = hydrateDefaults(cfg, seen)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// presence re-reads the document with pointer fields so an omitted boolean can
// be told apart from an explicit false.
type presence struct {
	Tracking struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"tracking"`
	Security struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"security"`
}

// Path returns the resolved configuration file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("ALAN_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".alan", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig is the configuration written on first run.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Tracking: domain.TrackingSettings{
			Enabled:            true,
			Store:              domain.StoreSQLite,
			SnapshotTTLSeconds: int(domain.DefaultSnapshotTTL.Seconds()),
		},
		Scoring: domain.ScoringSettings{
			NeutralPrior:        domain.DefaultNeutralPrior,
			MinSampleSize:       domain.DefaultMinSampleSize,
			RecencyHalfLifeDays: domain.DefaultRecencyHalfLifeDays,
		},
		Retention: domain.RetentionSettings{
			MaxAgeDays: domain.DefaultRetentionDays,
			MaxCount:   domain.DefaultRetentionCount,
		},
		Security: domain.SecuritySettings{
			Enabled:   true,
			RulesFile: filepath.Join(filesystem.UserHomeDir(), ".alan", "guardrail.yaml"),
		},
	}
}

// hydrateDefaults fills absent fields. Booleans are presence-checked so an
// explicit false survives; for the numeric scoring settings a zero means
// "use the default".
func hydrateDefaults(cfg domain.Config, seen presence) domain.Config {
	if seen.Tracking.Enabled == nil {
		cfg.Tracking.Enabled = true
	}
	if seen.Security.Enabled == nil {
		cfg.Security.Enabled = true
	}
	if cfg.Tracking.Store == "" {
		cfg.Tracking.Store = domain.StoreSQLite
	}
	if cfg.Scoring.NeutralPrior == 0 {
		cfg.Scoring.NeutralPrior = domain.DefaultNeutralPrior
	}
	if cfg.Scoring.MinSampleSize == 0 {
		cfg.Scoring.MinSampleSize = domain.DefaultMinSampleSize
	}
	if cfg.Scoring.RecencyHalfLifeDays == 0 {
		cfg.Scoring.RecencyHalfLifeDays = domain.DefaultRecencyHalfLifeDays
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
