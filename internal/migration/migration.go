// Package migration imports the flat pre-sharding documents into the current
// layout through the ledgers' public operations, then archives them.
package migration

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/goal"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const (
	TransactionsDocument = "transactions.json"
	GoalsDocument        = "goals.json"
	ArchiveSuffix        = ".migrated"

	fallbackCategoryID = "cat-1"
)

type TransactionAdder interface {
	Add(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type GoalAdder interface {
	Add(ctx context.Context, params goal.CreateParams) (*goal.Goal, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (settings.AppSettings, error)
}

type legacyTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

type legacyGoal struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount"`
	Deadline      string   `json:"deadline"`
}

// Report counts the records imported by a run.
type Report struct {
	Transactions int `json:"transactions"`
	Goals        int `json:"goals"`
	// Skipped counts legacy records the ledgers rejected.
	Skipped int `json:"skipped"`
}

func (r Report) Migrated() bool {
	return r.Transactions > 0 || r.Goals > 0
}

type Migrator struct {
	docs         *docstore.Store
	settings     SettingsReader
	transactions TransactionAdder
	goals        GoalAdder
	logger       *slog.Logger
}

func New(docs *docstore.Store, st SettingsReader, txs TransactionAdder, goals GoalAdder, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Migrator{
		docs:         docs,
		settings:     st,
		transactions: txs,
		goals:        goals,
		logger:       logger.With("component", "migration"),
	}
}

// Run performs both steps independently. Failures are logged and never abort
// startup; a second run over migrated data does nothing.
func (m *Migrator) Run(ctx context.Context) Report {
	var report Report

	m.migrateTransactions(ctx, &report)
	m.migrateGoals(ctx, &report)

	if report.Migrated() {
		m.logger.Info("migration from legacy format completed",
			"transactions", report.Transactions,
			"goals", report.Goals,
			"skipped", report.Skipped,
		)
	}

	return report
}

func (m *Migrator) migrateTransactions(ctx context.Context, report *Report) {
	raw, err := m.docs.ReadRaw(TransactionsDocument)
	if err != nil {
		m.logger.Debug("no legacy transactions", "error", err)
		return
	}

	res := docstore.Parse(raw, []legacyTransaction{})
	if res.UseDefault() {
		m.logger.Warn("legacy transactions are unreadable, leaving them in place", "error", res.Err)
		return
	}

	if len(res.Value) == 0 {
		return
	}

	st, err := m.settings.Get(ctx)
	if err != nil {
		m.logger.Error("failed to read settings for migration", "error", err)
		return
	}

	defaultID := fallbackCategoryID
	if len(st.Categories) > 0 {
		defaultID = st.Categories[0].ID
	}

	for _, old := range res.Value {
		categoryID := defaultID
		if c, ok := st.CategoryByName(old.Category); ok {
			categoryID = c.ID
		}

		_, err := m.transactions.Add(ctx, transaction.CreateParams{
			Date:        old.Date,
			Description: old.Description,
			Amount:      old.Amount,
			Type:        transaction.Type(old.Type),
			CategoryID:  categoryID,
			TagIDs:      []string{},
		})
		if err != nil {
			m.logger.Warn("skipping legacy transaction", "id", old.ID, "error", err)
			report.Skipped++

			continue
		}

		report.Transactions++
	}

	archived, err := m.docs.Archive(TransactionsDocument, ArchiveSuffix)
	if err != nil {
		m.logger.Error("failed to archive legacy transactions", "error", err)
		return
	}

	m.logger.Info("archived legacy transactions", "archive", archived)
}

// isLegacyGoals reports whether raw is a non-empty goals array in the old
// schema, i.e. no entry carries a depositHistory key.
func isLegacyGoals(raw []byte) ([]legacyGoal, bool) {
	shape := docstore.Parse(raw, []map[string]json.RawMessage{})
	if shape.UseDefault() || len(shape.Value) == 0 {
		return nil, false
	}

	for _, entry := range shape.Value {
		if _, ok := entry["depositHistory"]; ok {
			return nil, false
		}
	}

	goals := docstore.Parse(raw, []legacyGoal{})
	if goals.UseDefault() {
		return nil, false
	}

	return goals.Value, true
}

func (m *Migrator) migrateGoals(ctx context.Context, report *Report) {
	old, ok := m.archiveLegacyGoals()
	if !ok {
		return
	}

	for _, g := range old {
		var current float64
		if g.CurrentAmount != nil {
			current = *g.CurrentAmount
		}

		_, err := m.goals.Add(ctx, goal.CreateParams{
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: current,
			Deadline:      g.Deadline,
		})
		if err != nil {
			m.logger.Warn("skipping legacy goal", "id", g.ID, "error", err)
			report.Skipped++

			continue
		}

		report.Goals++
	}
}

// archiveLegacyGoals moves a legacy goals document out of the way so the goal
// ledger starts from an empty document, and returns its entries.
func (m *Migrator) archiveLegacyGoals() ([]legacyGoal, bool) {
	unlock := m.docs.Lock(GoalsDocument)
	defer unlock()

	raw, err := m.docs.ReadRaw(GoalsDocument)
	if err != nil {
		return nil, false
	}

	old, ok := isLegacyGoals(raw)
	if !ok {
		return nil, false
	}

	archived, err := m.docs.Archive(GoalsDocument, ArchiveSuffix)
	if err != nil {
		m.logger.Error("failed to archive legacy goals", "error", err)
		return nil, false
	}

	m.logger.Info("archived legacy goals", "archive", archived)

	return old, true
}
