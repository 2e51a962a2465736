package matching_test

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
	matchingHttp "github.com/MrJamesThe3rd/caixa/internal/http/matching"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
	"github.com/MrJamesThe3rd/caixa/internal/matching/store"
)

func TestHandler(t *testing.T) {
	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)

	router := chi.NewRouter()
	router.Route("/matching", matchingHttp.NewHandler(matching.NewService(store.New(docs))).Routes)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	type testCase struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "NoRulesYet",
			method:     http.MethodGet,
			target:     "/matching/suggest?raw_description=UBER+TRIP",
			wantStatus: http.StatusOK,
			wantBody:   `{"rawDescription":"UBER TRIP","categoryId":""}`,
		},
		{
			name:       "Learn",
			method:     http.MethodPost,
			target:     "/matching",
			body:       `{"pattern":"uber","categoryId":"cat-2"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Suggest",
			method:     http.MethodGet,
			target:     "/matching/suggest?raw_description=UBER+TRIP+LISBOA",
			wantStatus: http.StatusOK,
			wantBody:   `{"rawDescription":"UBER TRIP LISBOA","categoryId":"cat-2"}`,
		},
		{
			name:       "LearnRequiresCategory",
			method:     http.MethodPost,
			target:     "/matching",
			body:       `{"pattern":"uber"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SuggestRequiresQuery",
			method:     http.MethodGet,
			target:     "/matching/suggest",
			wantStatus: http.StatusBadRequest,
		},
	}

	// Cases run in order against the same rules document.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.method, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	rec := serve(http.MethodGet, "/matching", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pattern":"uber"`)
}
