package bill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

func TestProjectInstallments_ClampsDueDay(t *testing.T) {
	debt := bill.InstallmentDebt{
		ID:            "d1",
		Name:          "Notebook",
		TotalAmount:   300,
		Installments:  3,
		FirstDueMonth: "2025-01",
		DueDay:        31,
		CategoryID:    "cat-5",
	}

	occ, err := bill.ProjectInstallments(debt)
	require.NoError(t, err)
	require.Len(t, occ, 3)

	type want struct {
		id, month, date, label string
		day                    int
	}

	expected := []want{
		{id: "installment-d1-0", month: "2025-01", date: "2025-01-31", label: "1/3", day: 31},
		{id: "installment-d1-1", month: "2025-02", date: "2025-02-28", label: "2/3", day: 28},
		{id: "installment-d1-2", month: "2025-03", date: "2025-03-31", label: "3/3", day: 31},
	}

	for i, w := range expected {
		assert.Equal(t, w.id, occ[i].ID)
		assert.Equal(t, w.month, occ[i].Month)
		assert.Equal(t, w.date, occ[i].Date)
		assert.Equal(t, w.day, occ[i].Day)
		assert.Equal(t, w.label, occ[i].Label)
		assert.Equal(t, 100.0, occ[i].Amount)
		assert.Equal(t, transaction.TypeExpense, occ[i].Type)
	}
}

func TestProjectInstallments_LeapYearAndYearRollover(t *testing.T) {
	occ, err := bill.ProjectInstallments(bill.InstallmentDebt{
		ID: "d2", TotalAmount: 40, Installments: 4, FirstDueMonth: "2023-12", DueDay: 30,
	})
	require.NoError(t, err)

	dates := make([]string, 0, len(occ))
	for _, o := range occ {
		dates = append(dates, o.Date)
	}

	assert.Equal(t, []string{"2023-12-30", "2024-01-30", "2024-02-29", "2024-03-30"}, dates)
}

// Installment amounts are a plain division and are not corrected to add up to
// the total. This pins the current drift so any correction is a visible change.
func TestProjectInstallments_RoundingDriftIsUncorrected(t *testing.T) {
	occ, err := bill.ProjectInstallments(bill.InstallmentDebt{
		ID: "d3", TotalAmount: 1000, Installments: 7, FirstDueMonth: "2025-01", DueDay: 10,
	})
	require.NoError(t, err)

	var sum float64
	for _, o := range occ {
		assert.Equal(t, 1000.0/7, o.Amount)
		sum += o.Amount
	}

	assert.NotEqual(t, 1000.0, sum)
	assert.InDelta(t, 1000.0, sum, 1e-9)
}

func TestProjectFixed(t *testing.T) {
	b := bill.FixedBill{ID: "f1", Name: "Aluguel", Amount: 1500, Type: transaction.TypeExpense, DueDay: 31, Active: true}

	occ, err := bill.ProjectFixed(b, "2024-11", 4)
	require.NoError(t, err)
	require.Len(t, occ, 4)

	assert.Equal(t, "fixed-f1-2024-11", occ[0].ID)
	assert.Equal(t, "2024-11-30", occ[0].Date)
	assert.Equal(t, "2024-12-31", occ[1].Date)
	assert.Equal(t, "fixed-f1-2025-01", occ[2].ID)
	assert.Equal(t, "2025-02-28", occ[3].Date)
	assert.Empty(t, occ[0].Label)

	_, err = bill.ProjectFixed(b, "2024/11", 1)
	assert.Error(t, err)

	none, err := bill.ProjectFixed(b, "2024-11", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpcoming(t *testing.T) {
	fixed := []*bill.FixedBill{
		{ID: "rent", Name: "Aluguel", Amount: 1500, Type: transaction.TypeExpense, DueDay: 10, Active: true},
		{ID: "salary", Name: "Salário", Amount: 5000, Type: transaction.TypeIncome, DueDay: 5, Active: true},
		{ID: "gym", Name: "Academia", Amount: 90, Type: transaction.TypeExpense, DueDay: 1, Active: false},
	}
	debts := []*bill.InstallmentDebt{
		{ID: "tv", Name: "TV", TotalAmount: 200, Installments: 2, FirstDueMonth: "2025-02", DueDay: 3},
	}

	items, err := bill.Upcoming(fixed, debts, "2025-01", 2)
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	// Installments beyond the horizon are still listed.
	assert.Equal(t, []string{
		"fixed-rent-2025-01",
		"installment-tv-0",
		"fixed-rent-2025-02",
		"installment-tv-1",
	}, ids)
}

func TestMonthlyProjection(t *testing.T) {
	fixed := []*bill.FixedBill{
		{ID: "rent", Amount: 1500, Type: transaction.TypeExpense, DueDay: 10, Active: true},
		{ID: "salary", Amount: 5000, Type: transaction.TypeIncome, DueDay: 5, Active: true},
		{ID: "bonus", Amount: 700, Type: transaction.TypeIncome, DueDay: 5, Active: false},
	}
	debts := []*bill.InstallmentDebt{
		{ID: "tv", TotalAmount: 200, Installments: 2, FirstDueMonth: "2025-01", DueDay: 3},
	}

	months, err := bill.MonthlyProjection(fixed, debts, []string{"fixed-rent-2025-01"}, "2025-01", 3)
	require.NoError(t, err)
	require.Len(t, months, 3)

	assert.Equal(t, "2025-01", months[0].Month)
	assert.Equal(t, 5000.0, months[0].Income)
	assert.Equal(t, 100.0, months[0].Expense)
	assert.Equal(t, 4900.0, months[0].Balance)
	require.Len(t, months[0].Items, 1)
	assert.Equal(t, "installment-tv-0", months[0].Items[0].ID)

	assert.Equal(t, 1600.0, months[1].Expense)
	assert.Equal(t, 1500.0, months[2].Expense)
	assert.Len(t, months[2].Items, 1)
}

func TestAddMonths(t *testing.T) {
	type testCase struct {
		name  string
		month string
		n     int
		want  string
	}

	tests := []testCase{
		{name: "Same", month: "2025-05", n: 0, want: "2025-05"},
		{name: "Forward", month: "2025-11", n: 3, want: "2026-02"},
		{name: "Backward", month: "2025-01", n: -1, want: "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.AddMonths(tt.month, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
