package root

import (
	"context"
	"database/sql"
	"log/slog"

	"lifeforge/internal/catalog"
	"lifeforge/internal/engine"
	"lifeforge/internal/metrics"
	"lifeforge/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// app bundles what commands need: the service, the catalog and a logger.
type app struct {
	svc     *engine.Service
	catalog *catalog.Catalog
	log     *slog.Logger
}

func openApp(ctx context.Context) (*app, func(), error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	templates, err := cat.QuestTemplates()
	if err != nil {
		return nil, nil, err
	}
	achievements, err := cat.AchievementDefs()
	if err != nil {
		return nil, nil, err
	}

	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}

	logger := cfg.Logger()
	opts := engine.Options{
		Streaks:      engine.StreakPolicy{EarlyTolerancePercent: cfg.Streaks.EarlyTolerancePct},
		Templates:    templates,
		Achievements: achievements,
		Logger:       logger,
	}
	if cfg.Metrics.Enabled {
		opts.Recorder = metrics.NewRecorder()
	}
	svc := engine.NewService(storage.NewSQLiteStore(db), opts)
	return &app{svc: svc, catalog: cat, log: logger}, cleanup, nil
}
