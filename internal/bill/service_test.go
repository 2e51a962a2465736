package bill_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

func newService(t *testing.T) (*bill.Service, *docstore.Store) {
	t.Helper()

	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)

	return bill.NewService(docs), docs
}

func TestService_FixedBills(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	b, err := svc.AddFixedBill(ctx, bill.FixedBillParams{
		Name: "Internet", Amount: 99.9, Type: transaction.TypeExpense, CategoryID: "cat-3", DueDay: 15, Active: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, []string{}, b.TagIDs)

	updated, err := svc.UpdateFixedBill(ctx, b.ID, bill.FixedBillPatch{Active: new(false), DueDay: new(20)})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 20, updated.DueDay)
	assert.Equal(t, "Internet", updated.Name)

	_, err = svc.UpdateFixedBill(ctx, "missing", bill.FixedBillPatch{})
	assert.ErrorIs(t, err, bill.ErrNotFound)

	_, err = svc.UpdateFixedBill(ctx, b.ID, bill.FixedBillPatch{DueDay: new(32)})
	assert.ErrorIs(t, err, validate.ErrOutOfRange)

	list, err := svc.FixedBills(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 20, list[0].DueDay)

	deleted, err := svc.DeleteFixedBill(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteFixedBill(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestService_AddFixedBill_Validation(t *testing.T) {
	type testCase struct {
		name    string
		params  bill.FixedBillParams
		wantErr error
	}

	tests := []testCase{
		{name: "ZeroAmount", params: bill.FixedBillParams{Name: "x", DueDay: 1}, wantErr: validate.ErrNotPositive},
		{name: "DueDayZero", params: bill.FixedBillParams{Name: "x", Amount: 1}, wantErr: validate.ErrOutOfRange},
		{name: "NoName", params: bill.FixedBillParams{Amount: 1, DueDay: 1}, wantErr: validate.ErrRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.AddFixedBill(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, validate.ErrInvalid)
		})
	}
}

func TestService_FixedBillNormalisation(t *testing.T) {
	svc, docs := newService(t)
	require.NoError(t, docs.EnsureDirs())

	raw := `[{"id":"f1","name":"Luz","amount":120,"type":"whatever","categoryId":"cat-3","dueDay":5,"active":true}]`
	require.NoError(t, os.WriteFile(docs.Path(bill.FixedBillsDocument), []byte(raw), 0o644))

	list, err := svc.FixedBills(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, transaction.TypeExpense, list[0].Type)
	assert.Equal(t, []string{}, list[0].TagIDs)
}

func TestService_InstallmentDebts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	d, err := svc.AddInstallmentDebt(ctx, bill.DebtParams{
		Name: "Geladeira", TotalAmount: 3000, Installments: 10, FirstDueMonth: "2025-03", DueDay: 8, TagIDs: []string{"t1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, d.InstallmentAmount())

	updated, err := svc.UpdateInstallmentDebt(ctx, d.ID, bill.DebtPatch{Installments: new(12)})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.InstallmentAmount())
	assert.Equal(t, []string{"t1"}, updated.TagIDs)

	_, err = svc.UpdateInstallmentDebt(ctx, d.ID, bill.DebtPatch{Installments: new(0)})
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = svc.AddInstallmentDebt(ctx, bill.DebtParams{Name: "x", TotalAmount: 1, Installments: 1, FirstDueMonth: "03/2025", DueDay: 1})
	assert.ErrorIs(t, err, validate.ErrBadMonth)

	_, err = svc.UpdateInstallmentDebt(ctx, "missing", bill.DebtPatch{})
	assert.ErrorIs(t, err, bill.ErrNotFound)

	debts, err := svc.InstallmentDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, 12, debts[0].Installments)

	deleted, err := svc.DeleteInstallmentDebt(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
