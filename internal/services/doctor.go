package services

import (
	"context"
	"fmt"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/ports"
)

// DoctorService runs tracking-core diagnostics: config, store, guardrail.
type DoctorService struct {
	ConfigProvider  ports.ConfigProvider
	HistoryStore    ports.HistoryStore
	SecurityService ports.SecurityService
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := cfg.Validate(); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	if !cfg.Tracking.Enabled {
		checks = append(checks, warn("Tracking", "disabled in config; suggestions are not recorded"))
	} else {
		checks = append(checks, ok("Tracking", fmt.Sprintf("enabled, backend %s", backendName(cfg))))
	}

	if s.HistoryStore != nil {
		records, skipped, err := s.HistoryStore.All()
		switch {
		case err != nil:
			checks = append(checks, fail("History store", err.Error()))
		case skipped > 0:
			checks = append(checks, warn("History store",
				fmt.Sprintf("%d records readable, %d malformed entries skipped (%s)", len(records), skipped, s.HistoryStore.Path())))
		default:
			checks = append(checks, ok("History store",
				fmt.Sprintf("%d records (%s)", len(records), s.HistoryStore.Path())))
		}
	} else {
		checks = append(checks, warn("History store", "not initialized"))
	}

	if s.SecurityService != nil {
		if _, err := s.SecurityService.Evaluate("ls"); err != nil {
			checks = append(checks, fail("Guardrail", err.Error()))
		} else {
			checks = append(checks, ok("Guardrail", "rules loaded"))
		}
	} else {
		checks = append(checks, warn("Guardrail", "security service not initialized"))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func backendName(cfg domain.Config) string {
	if cfg.Tracking.Store == "" {
		return domain.StoreSQLite
	}
	return cfg.Tracking.Store
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
