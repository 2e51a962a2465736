package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/http/bill"
	"github.com/MrJamesThe3rd/caixa/internal/http/export"
	"github.com/MrJamesThe3rd/caixa/internal/http/goal"
	"github.com/MrJamesThe3rd/caixa/internal/http/importcsv"
	"github.com/MrJamesThe3rd/caixa/internal/http/matching"
	"github.com/MrJamesThe3rd/caixa/internal/http/paid"
	"github.com/MrJamesThe3rd/caixa/internal/http/settings"
	"github.com/MrJamesThe3rd/caixa/internal/http/transaction"
)

type Handlers struct {
	Settings     *settings.Handler
	Transactions *transaction.Handler
	Goals        *goal.Handler
	Bills        *bill.Handler
	Paid         *paid.Handler
	Import       *importcsv.Handler
	Matching     *matching.Handler
	Export       *export.Handler
}

// NewHandlers builds one handler per service of a.
func NewHandlers(a *app.App) Handlers {
	return Handlers{
		Settings:     settings.NewHandler(a.Settings),
		Transactions: transaction.NewHandler(a.Transactions),
		Goals:        goal.NewHandler(a.Goals),
		Bills:        bill.NewHandler(a.Bills, a.Paid, a.ProjectionMonths()),
		Paid:         paid.NewHandler(a.Paid),
		Import:       importcsv.NewHandler(a.Importer),
		Matching:     matching.NewHandler(a.Matching),
		Export:       export.NewHandler(a.Export),
	}
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Settings.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Goals.Routes(r)
		})

		r.Route("/fixed-bills", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Bills.FixedBillRoutes(r)
		})

		r.Route("/installment-debts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Bills.DebtRoutes(r)
		})

		r.Get("/projection", h.Bills.Projection)
		r.Get("/upcoming", h.Bills.Upcoming)

		r.Route("/paid", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Paid.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			h.Matching.Routes(r)
		})

		r.Route("/export", h.Export.Routes)
	})

	return router
}
