// Package export writes a month of transactions as CSV or as a plain-text summary.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

var header = []string{"date", "description", "type", "category", "amount"}

type TransactionLister interface {
	List(ctx context.Context, month string) ([]*transaction.Transaction, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (settings.AppSettings, error)
}

// Row is a transaction with its category name resolved.
type Row struct {
	Transaction *transaction.Transaction
	Category    string
}

type Service struct {
	transactions TransactionLister
	settings     SettingsReader
}

func NewService(txs TransactionLister, st SettingsReader) *Service {
	return &Service{transactions: txs, settings: st}
}

// Rows lists the transactions of month, most recent first. Categories that no
// longer exist are shown by their raw ID.
func (s *Service) Rows(ctx context.Context, month string) ([]Row, error) {
	txs, err := s.transactions.List(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, Row{Transaction: tx, Category: st.CategoryName(tx.CategoryID)})
	}

	return rows, nil
}

func (s *Service) WriteCSV(ctx context.Context, w io.Writer, month string) error {
	rows, err := s.Rows(ctx, month)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		tx := r.Transaction

		record := []string{tx.Date, tx.Description, string(tx.Type), r.Category, formatAmount(tx.Amount)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Totals sums a set of rows per type, and the expenses per category name.
type Totals struct {
	Income            decimal.Decimal
	Expense           decimal.Decimal
	ExpenseByCategory map[string]decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func Total(rows []Row) Totals {
	t := Totals{ExpenseByCategory: map[string]decimal.Decimal{}}

	for _, r := range rows {
		amount := decimal.NewFromFloat(r.Transaction.Amount)

		switch r.Transaction.Type {
		case transaction.TypeIncome:
			t.Income = t.Income.Add(amount)
		case transaction.TypeExpense:
			t.Expense = t.Expense.Add(amount)
			t.ExpenseByCategory[r.Category] = t.ExpenseByCategory[r.Category].Add(amount)
		}
	}

	return t
}

// Summary renders one line per row, signed by type, followed by the totals.
// Categories are listed by expense, largest first.
func (s *Service) Summary(rows []Row) string {
	var sb strings.Builder

	for _, r := range rows {
		tx := r.Transaction

		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s%s\n", tx.Date, tx.Description, r.Category, sign, formatAmount(tx.Amount))
	}

	totals := Total(rows)

	fmt.Fprintf(&sb, "\nIncome: %s\n", totals.Income.StringFixed(2))
	fmt.Fprintf(&sb, "Expense: %s\n", totals.Expense.StringFixed(2))
	fmt.Fprintf(&sb, "Balance: %s\n", totals.Balance().StringFixed(2))

	if len(totals.ExpenseByCategory) == 0 {
		return sb.String()
	}

	categories := slices.SortedFunc(maps.Keys(totals.ExpenseByCategory), func(a, b string) int {
		if c := totals.ExpenseByCategory[b].Cmp(totals.ExpenseByCategory[a]); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})

	sb.WriteString("\nExpense by category:\n")

	for _, name := range categories {
		fmt.Fprintf(&sb, "  %s: %s\n", name, totals.ExpenseByCategory[name].StringFixed(2))
	}

	return sb.String()
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
