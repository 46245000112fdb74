package main

import (
	"fmt"
	"log/slog"

	"github.com/hanja-cards/backend/internal/domain/catalog"
	"github.com/hanja-cards/backend/internal/infrastructure/config"
	"github.com/hanja-cards/backend/internal/metrics"
	"github.com/hanja-cards/backend/internal/service"
	"github.com/hanja-cards/backend/internal/store"
)

// app is the wired dependency graph shared by every command.
type app struct {
	study   *service.StudyService
	metrics *metrics.Recorder
	kv      store.KV
}

func openApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	kv, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	rec := metrics.NewRecorder()
	study := service.NewStudyService(kv, cat, logger, service.Options{
		Config:         cfg.Session(),
		Metrics:        rec,
		WriteQueueSize: cfg.WriteQueueSize,
	})

	logger.Info("catalog loaded", "path", cfg.CatalogPath, "items", cat.Len())
	return &app{study: study, metrics: rec, kv: kv}, nil
}

// Close drains pending writes before the store goes away.
func (a *app) Close(logger *slog.Logger) {
	a.study.Close()
	if err := a.kv.Close(); err != nil {
		logger.Error("failed to close store", "error", err)
	}
}
