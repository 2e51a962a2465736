package bill_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	billHttp "github.com/MrJamesThe3rd/caixa/internal/http/bill"
)

type paidList struct {
	ids []string
}

func (p *paidList) List(context.Context) ([]string, error) { return p.ids, nil }

func newRouter(t *testing.T, paid *paidList) (http.Handler, *bill.Service) {
	t.Helper()

	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)
	svc := bill.NewService(docs)

	h := billHttp.NewHandler(svc, paid, 12).WithClock(func() time.Time {
		return time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)
	})

	r := chi.NewRouter()
	r.Route("/fixed-bills", h.FixedBillRoutes)
	r.Route("/installment-debts", h.DebtRoutes)
	r.Get("/projection", h.Projection)
	r.Get("/upcoming", h.Upcoming)

	return r, svc
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_FixedBills(t *testing.T) {
	router, _ := newRouter(t, &paidList{})

	rec := do(router, http.MethodPost, "/fixed-bills", `{"name":"Internet","amount":99.9,"categoryId":"cat-3","dueDay":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var b bill.FixedBill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.True(t, b.Active)
	assert.Equal(t, "expense", string(b.Type))

	rec = do(router, http.MethodPatch, "/fixed-bills/"+b.ID, `{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.False(t, b.Active)

	rec = do(router, http.MethodPost, "/fixed-bills", `{"name":"Internet","amount":99.9,"dueDay":32}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPatch, "/fixed-bills/nope", `{"active":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/fixed-bills/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/fixed-bills/"+b.ID, "").Code)
}

func TestHandler_ProjectionAndUpcoming(t *testing.T) {
	router, svc := newRouter(t, &paidList{})
	ctx := context.Background()

	_, err := svc.AddFixedBill(ctx, bill.FixedBillParams{Name: "Salário", Amount: 5000, Type: "income", DueDay: 5, Active: true})
	require.NoError(t, err)

	rec := do(router, http.MethodPost, "/installment-debts",
		`{"name":"Geladeira","totalAmount":300,"installments":3,"firstDueMonth":"2025-01","dueDay":31}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var d bill.InstallmentDebt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))

	rec = do(router, http.MethodGet, "/projection?months=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var proj []bill.MonthProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proj))
	require.Len(t, proj, 2)
	assert.Equal(t, "2025-01", proj[0].Month)
	assert.InDelta(t, 5000, proj[0].Income, 1e-9)
	assert.InDelta(t, 100, proj[0].Expense, 1e-9)
	assert.Equal(t, "2025-02-28", proj[1].Items[0].Date)

	rec = do(router, http.MethodGet, "/upcoming", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		ID   string `json:"id"`
		Paid bool   `json:"paid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "installment-"+d.ID+"-0", items[0].ID)
	assert.False(t, items[0].Paid)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/projection?months=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/upcoming?months=abc", "").Code)
}

func TestHandler_PaidMarkers(t *testing.T) {
	paid := &paidList{}
	router, svc := newRouter(t, paid)

	b, err := svc.AddFixedBill(context.Background(), bill.FixedBillParams{
		Name: "Luz", Amount: 80, Type: "expense", DueDay: 15, Active: true,
	})
	require.NoError(t, err)

	paid.ids = []string{"fixed-" + b.ID + "-2025-01"}

	rec := do(router, http.MethodGet, "/upcoming?months=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		Month string `json:"month"`
		Paid  bool   `json:"paid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.True(t, items[0].Paid)
	assert.Equal(t, "2025-02", items[1].Month)
	assert.False(t, items[1].Paid)

	rec = do(router, http.MethodGet, "/projection?months=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var proj []bill.MonthProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &proj))
	assert.Empty(t, proj[0].Items)
	assert.InDelta(t, 0, proj[0].Expense, 1e-9)
	assert.InDelta(t, 80, proj[1].Expense, 1e-9)
}
