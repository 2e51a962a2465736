package goal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/caixa/internal/goal"
	goalHttp "github.com/MrJamesThe3rd/caixa/internal/http/goal"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type fakeRepo struct {
	goals []*goal.Goal
}

func (f *fakeRepo) Load(_ context.Context) ([]*goal.Goal, error) { return f.goals, nil }

func (f *fakeRepo) Save(_ context.Context, goals []*goal.Goal) error {
	f.goals = goals
	return nil
}

func (f *fakeRepo) Lock() func() { return func() {} }

func newRouter(t *testing.T, txs goal.TransactionCreator, goals ...*goal.Goal) http.Handler {
	t.Helper()

	svc := goal.NewService(&fakeRepo{goals: goals}, txs, goal.WithIDGenerator(func() string { return "g-new" }))

	r := chi.NewRouter()
	r.Route("/goals", goalHttp.NewHandler(svc).Routes)

	return r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func trip() *goal.Goal {
	return &goal.Goal{ID: "g-1", Name: "Viagem", TargetAmount: 1000, DepositHistory: []goal.Deposit{}}
}

func TestHandler_Create(t *testing.T) {
	router := newRouter(t, nil)

	rec := do(router, http.MethodPost, "/goals", `{"name":"Reserva","targetAmount":500,"currentAmount":100}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"g-new","name":"Reserva","targetAmount":500,"currentAmount":100,"deadline":"","depositHistory":[],"progress":0.2}`, rec.Body.String())

	rec = do(router, http.MethodPost, "/goals", `{"name":"","targetAmount":500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Deposit(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *goal.MockTransactionCreator)
		wantStatus int
		wantLink   string
	}

	tests := []testCase{
		{
			name: "Linked",
			body: `{"amount":100,"createExpenseTransaction":true,"expenseCategoryId":"cat-x"}`,
			setupMock: func(m *goal.MockTransactionCreator) {
				m.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&transaction.Transaction{ID: "tx-1"}, nil)
			},
			wantStatus: http.StatusOK,
			wantLink:   "done",
		},
		{
			name:       "NoTransaction",
			body:       `{"amount":100}`,
			wantStatus: http.StatusOK,
			wantLink:   "none",
		},
		{
			name: "LinkPending",
			body: `{"amount":100,"createExpenseTransaction":true,"expenseCategoryId":"cat-x"}`,
			setupMock: func(m *goal.MockTransactionCreator) {
				m.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))
			},
			wantStatus: http.StatusOK,
			wantLink:   "pending",
		},
		{
			name:       "ZeroAmount",
			body:       `{"amount":0}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			txs := goal.NewMockTransactionCreator(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(txs)
			}

			router := newRouter(t, txs, trip())

			rec := do(router, http.MethodPost, "/goals/g-1/deposit", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantLink == "" {
				return
			}

			var resp struct {
				Goal struct {
					CurrentAmount float64 `json:"currentAmount"`
				} `json:"goal"`
				Link string `json:"link"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantLink, resp.Link)
			assert.InDelta(t, 100, resp.Goal.CurrentAmount, 1e-9)
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	router := newRouter(t, nil, trip())

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/goals/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/goals/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/goals/nope/deposit", `{"amount":5}`).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/goals/nope/paid", "").Code)
}

func TestHandler_MarkAsPaid(t *testing.T) {
	router := newRouter(t, nil, trip())

	rec := do(router, http.MethodPost, "/goals/g-1/paid", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Goal goal.Goal `json:"goal"`
		Link string    `json:"link"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Goal.CompletedAt)
	assert.Equal(t, "none", resp.Link)
}
