// Package app wires application services with infrastructure adapters.
package app

import (
	"context"

	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/infrastructure/classify"
	"github.com/doeshing/alan-go/internal/infrastructure/config"
	"github.com/doeshing/alan-go/internal/infrastructure/history"
	"github.com/doeshing/alan-go/internal/infrastructure/security"
	"github.com/doeshing/alan-go/internal/pkg/logger"
	"github.com/doeshing/alan-go/internal/ports"
	"github.com/doeshing/alan-go/internal/services"
)

// Container holds the wired dependency graph.
type Container struct {
	Config          domain.Config
	ConfigLoader    *config.FileLoader
	Tracker         *services.Tracker
	DoctorService   *services.DoctorService
	HistoryStore    ports.HistoryStore
	SecurityService ports.SecurityService
	Logger          ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
	if err != nil {
		guardrail, err = security.NewGuardrail("")
		if err != nil {
			return nil, err
		}
	}

	categorizer := classify.NewKeywordCategorizer()
	tracker := services.NewTracker(store, categorizer, cfg, log)

	doctorService := &services.DoctorService{
		ConfigProvider:  cfgLoader,
		HistoryStore:    store,
		SecurityService: guardrail,
	}

	return &Container{
		Config:          cfg,
		ConfigLoader:    cfgLoader,
		Tracker:         tracker,
		DoctorService:   doctorService,
		HistoryStore:    store,
		SecurityService: guardrail,
		Logger:          log,
	}, nil
}

// openStore selects the configured backend, falling back from sqlite to the
// jsonl log if the database cannot be opened.
func openStore(cfg domain.Config) (ports.HistoryStore, error) {
	if cfg.Tracking.Store == domain.StoreJSONL {
		return history.NewFileStore("")
	}
	store, err := history.NewSQLiteStore("")
	if err != nil {
		return history.NewFileStore("")
	}
	return store, nil
}
