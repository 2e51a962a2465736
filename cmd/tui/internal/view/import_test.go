package view

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m ImportModel, msg tea.Msg) ImportModel {
	t.Helper()

	next, _ := m.Update(msg)
	im, ok := next.(ImportModel)
	require.True(t, ok)

	return im
}

func reviewing(t *testing.T) ImportModel {
	t.Helper()

	m := NewImportModel(nil, nil)

	return step(t, m, parsedMsg{params: []transaction.CreateParams{
		{Date: "2025-01-05", Description: "Mercado", Amount: 80.5, Type: transaction.TypeExpense, CategoryID: "cat-1"},
		{Date: "2025-01-06", Description: "Salário", Amount: 3000, Type: transaction.TypeIncome},
	}})
}

func TestImportModel_Review(t *testing.T) {
	m := reviewing(t)
	require.Equal(t, importStepReview, m.step)
	assert.Equal(t, 2, m.keptCount())
	assert.True(t, m.net().Equal(decimal.RequireFromString("2919.5")))
	assert.Contains(t, m.View(), "2 of 2 rows kept, net 2919.50")
	assert.Contains(t, m.View(), "Alimentação")

	m = step(t, m, key(" "))
	assert.Equal(t, 1, m.keptCount())
	assert.Equal(t, []transaction.CreateParams{m.rows[1].params}, m.kept())
	assert.True(t, m.net().Equal(decimal.NewFromInt(3000)))

	m = step(t, m, key("a"))
	assert.Equal(t, 2, m.keptCount())

	m = step(t, m, key("a"))
	assert.Zero(t, m.keptCount())
	assert.Empty(t, m.kept())
}

func TestImportModel_CategoryStep(t *testing.T) {
	m := reviewing(t)

	m = step(t, m, key("c"))
	require.Equal(t, importStepCategory, m.step)
	require.NotNil(t, m.category)
	assert.Equal(t, "cat-1", *m.category)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, importStepReview, m.step)
}

func TestImportModel_Results(t *testing.T) {
	type testCase struct {
		name    string
		msg     tea.Msg
		wantErr bool
		want    string
	}

	tests := []testCase{
		{name: "ParseFails", msg: parsedMsg{err: errors.New("no known layout")}, wantErr: true, want: "Could not read the statement: no known layout"},
		{name: "Saved", msg: savedMsg{count: 2, wanted: 2}, want: "Imported 2 of 2 transactions."},
		{name: "Partial", msg: savedMsg{count: 1, wanted: 2, err: errors.New("invalid amount")}, wantErr: true, want: "Stopped at: invalid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := step(t, NewImportModel(nil, nil), tt.msg)
			assert.Equal(t, importStepDone, m.step)
			assert.Equal(t, tt.wantErr, m.err != nil)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestExportModel_Done(t *testing.T) {
	m := NewExportModel(nil, nil)

	next, _ := m.Update(exportDone{
		files: []string{"exports/transactions_2025-01.csv", "exports/summary_2025-01.txt"},
		totals: export.Total([]export.Row{
			{Transaction: &transaction.Transaction{Type: transaction.TypeIncome, Amount: 100}},
			{Transaction: &transaction.Transaction{Type: transaction.TypeExpense, Amount: 30.25}, Category: "Lazer"},
		}),
	})

	em, ok := next.(ExportModel)
	require.True(t, ok)

	view := em.View()
	assert.Contains(t, view, "exports/summary_2025-01.txt")
	assert.Contains(t, view, "69.75")
	assert.Equal(t, "Esc: back to menu | r: export again", em.ShortHelp())
}
