package importer_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	txstore "github.com/MrJamesThe3rd/caixa/internal/transaction/store"
)

type suggesterFunc func(ctx context.Context, raw string) (string, error)

func (f suggesterFunc) Suggest(ctx context.Context, raw string) (string, error) {
	return f(ctx, raw)
}

const statement = `Data mov.;Descrição;Montante
30-01-2026;UBER TRIP;-12,40
29-01-2026;SALARIO;2.000,00
`

func TestService_Preview(t *testing.T) {
	matcher := suggesterFunc(func(_ context.Context, raw string) (string, error) {
		if strings.Contains(raw, "UBER") {
			return "cat-2", nil
		}

		return "", errors.New("rules unavailable")
	})

	svc := importer.NewService(matcher, nil)

	params, err := svc.Preview(context.Background(), importer.BankCGD, strings.NewReader(statement))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "cat-2", params[0].CategoryID)
	assert.Empty(t, params[1].CategoryID)
}

func TestService_UnknownBank(t *testing.T) {
	svc := importer.NewService(nil, nil)

	_, err := svc.Parse("itau", strings.NewReader(statement))
	assert.ErrorContains(t, err, "unknown bank")
}

func TestService_Import(t *testing.T) {
	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)
	txs := transaction.NewService(txstore.New(docs))
	matcher := suggesterFunc(func(context.Context, string) (string, error) { return "cat-6", nil })

	svc := importer.NewService(matcher, txs)

	created, err := svc.Import(context.Background(), "", strings.NewReader(statement))
	require.NoError(t, err)
	assert.Len(t, created, 2)

	jan, err := txs.List(context.Background(), "2026-01")
	require.NoError(t, err)
	require.Len(t, jan, 2)
	assert.Equal(t, "UBER TRIP", jan[0].Description)
	assert.Equal(t, 12.4, jan[0].Amount)
	assert.Equal(t, "cat-6", jan[0].CategoryID)
	assert.Equal(t, transaction.TypeIncome, jan[1].Type)
}
