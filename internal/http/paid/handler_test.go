package paid_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	paidHttp "github.com/MrJamesThe3rd/caixa/internal/http/paid"
	"github.com/MrJamesThe3rd/caixa/internal/paid"
)

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler(t *testing.T) {
	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)

	router := chi.NewRouter()
	router.Route("/paid", paidHttp.NewHandler(paid.NewService(docs)).Routes)

	rec := do(router, http.MethodGet, "/paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(router, http.MethodPut, "/paid", `["fixed-a-2025-01","fixed-a-2025-01","installment-d-0"]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["fixed-a-2025-01","installment-d-0"]`, rec.Body.String())

	rec = do(router, http.MethodPost, "/paid/installment-d-0/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"installment-d-0","paid":false}`, rec.Body.String())

	rec = do(router, http.MethodPost, "/paid/fixed-b-2025-02/toggle", "")
	assert.JSONEq(t, `{"id":"fixed-b-2025-02","paid":true}`, rec.Body.String())

	rec = do(router, http.MethodGet, "/paid", "")
	assert.JSONEq(t, `["fixed-a-2025-01","fixed-b-2025-02"]`, rec.Body.String())

	rec = do(router, http.MethodPut, "/paid", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
