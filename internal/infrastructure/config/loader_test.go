package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/alan-go/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Tracking.Enabled || cfg.Tracking.Store != domain.StoreSQLite {
		t.Fatalf("unexpected default tracking settings: %+v", cfg.Tracking)
	}
	if cfg.Scoring.NeutralPrior != domain.DefaultNeutralPrior {
		t.Fatalf("neutral prior = %v, want %v", cfg.Scoring.NeutralPrior, domain.DefaultNeutralPrior)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != domain.SecureFilePermissions {
		t.Fatalf("config permissions = %v, want %v", info.Mode().Perm(), os.FileMode(domain.SecureFilePermissions))
	}

	// Loading again reads back what was written.
	again, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if again.Scoring != cfg.Scoring || again.Retention != cfg.Retention {
		t.Fatalf("round-trip mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadHydratesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `tracking:
  enabled: true
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Tracking.Store != domain.StoreSQLite {
		t.Fatalf("store = %q, want default sqlite", cfg.Tracking.Store)
	}
	if cfg.Scoring.MinSampleSize != domain.DefaultMinSampleSize {
		t.Fatalf("min sample size = %d, want %d", cfg.Scoring.MinSampleSize, domain.DefaultMinSampleSize)
	}
	if cfg.Scoring.RecencyHalfLifeDays != domain.DefaultRecencyHalfLifeDays {
		t.Fatalf("half life = %d, want %d", cfg.Scoring.RecencyHalfLifeDays, domain.DefaultRecencyHalfLifeDays)
	}
}

func TestLoadDefaultsOmittedBooleans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `scoring:
  min_sample_size: 5
`
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Tracking.Enabled {
		t.Fatal("omitted tracking.enabled must default to true")
	}
	if !cfg.Security.Enabled {
		t.Fatal("omitted security.enabled must default to true")
	}
	if cfg.Scoring.MinSampleSize != 5 {
		t.Fatalf("min sample size = %d, want 5", cfg.Scoring.MinSampleSize)
	}
}

func TestLoadKeepsExplicitFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	explicit := `tracking:
  enabled: false
security:
  enabled: false
`
	if err := os.WriteFile(path, []byte(explicit), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Tracking.Enabled {
		t.Fatal("explicit tracking.enabled: false was overridden")
	}
	if cfg.Security.Enabled {
		t.Fatal("explicit security.enabled: false was overridden")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := `tracking:
  store: carrier-pigeon
`
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected validation error for unknown store backend")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tracking: [not: a map"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestPathResolution(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom.yaml")
	if got := NewFileLoader(override).Path(); got != override {
		t.Fatalf("Path = %q, want override %q", got, override)
	}

	env := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv("ALAN_CONFIG", env)
	if got := NewFileLoader("").Path(); got != env {
		t.Fatalf("Path = %q, want env override %q", got, env)
	}
}
