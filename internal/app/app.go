// Package app builds the services over one data root and runs the legacy
// migration before handing them out.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/goal"
	goalStore "github.com/MrJamesThe3rd/caixa/internal/goal/store"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/caixa/internal/matching/store"
	"github.com/MrJamesThe3rd/caixa/internal/migration"
	"github.com/MrJamesThe3rd/caixa/internal/paid"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	txStore "github.com/MrJamesThe3rd/caixa/internal/transaction/store"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Docs   *docstore.Store

	Settings     *settings.Service
	Transactions *transaction.Service
	Goals        *goal.Service
	Bills        *bill.Service
	Paid         *paid.Service
	Matching     *matching.Service
	Importer     *importer.Service
	Export       *export.Service

	// Migrated is what the startup migration imported.
	Migrated migration.Report
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	root, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	return Open(ctx, cfg, root, logger)
}

// Open builds the services over root, which overrides the configured data directory.
func Open(ctx context.Context, cfg *config.Config, root string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	docs := docstore.New(root, logger)
	if err := docs.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("preparing data root: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Docs: docs}

	a.Settings = settings.NewService(docs)
	a.Transactions = transaction.NewService(txStore.New(docs))
	a.Goals = goal.NewService(goalStore.New(docs), a.Transactions)
	a.Bills = bill.NewService(docs)
	a.Paid = paid.NewService(docs)
	a.Matching = matching.NewService(matchingStore.New(docs))
	a.Importer = importer.NewService(a.Matching, a.Transactions)
	a.Export = export.NewService(a.Transactions, a.Settings)

	a.Migrated = migration.New(docs, a.Settings, a.Transactions, a.Goals, logger).Run(ctx)

	logger.Info("data root ready", "root", root)

	return a, nil
}

// ProjectionMonths returns the configured projection horizon.
func (a *App) ProjectionMonths() int {
	if a.Config == nil || a.Config.Projection.Months < 1 {
		return 12
	}

	return a.Config.Projection.Months
}
