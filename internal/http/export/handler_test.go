package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	exportHttp "github.com/MrJamesThe3rd/caixa/internal/http/export"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	txstore "github.com/MrJamesThe3rd/caixa/internal/transaction/store"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)
	txs := transaction.NewService(txstore.New(docs))

	_, err := txs.Add(context.Background(), transaction.CreateParams{
		Date: "2025-01-05", Description: "Mercado", Amount: 80.5, Type: transaction.TypeExpense, CategoryID: "cat-1",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/export", exportHttp.NewHandler(export.NewService(txs, settings.NewService(docs))).Routes)

	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_CSV(t *testing.T) {
	router := newRouter(t)

	rec := get(router, "/export?month=2025-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transactions_2025-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "date,description,type,category,amount\n2025-01-05,Mercado,expense,Alimentação,80.50\n", rec.Body.String())

	rec = get(router, "/export?month=jan")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Summary(t *testing.T) {
	rec := get(newRouter(t), "/export/summary?month=2025-01")
	require.Equal(t, http.StatusOK, rec.Code)
	want := "* 2025-01-05 | Mercado | Alimentação | -80.50\n" +
		"\nIncome: 0.00\nExpense: 80.50\nBalance: -80.50\n" +
		"\nExpense by category:\n  Alimentação: 80.50\n"
	assert.Equal(t, want, rec.Body.String())
}

func TestHandler_Download(t *testing.T) {
	rec := get(newRouter(t), "/export/download?month=2025-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	names := []string{zr.File[0].Name, zr.File[1].Name}
	assert.Equal(t, []string{"transactions_2025-01.csv", "summary.txt"}, names)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Mercado")
}
