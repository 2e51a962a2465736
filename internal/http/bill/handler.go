package bill

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// maxHorizon caps the months query parameter of the projection endpoints.
const maxHorizon = 120

type PaidLister interface {
	List(ctx context.Context) ([]string, error)
}

type Handler struct {
	svc     *bill.Service
	paid    PaidLister
	horizon int
	now     func() time.Time
}

func NewHandler(svc *bill.Service, paid PaidLister, horizon int) *Handler {
	return &Handler{svc: svc, paid: paid, horizon: horizon, now: time.Now}
}

// WithClock replaces the clock that picks the first projected month.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) FixedBillRoutes(r chi.Router) {
	r.Get("/", h.listFixed)
	r.Post("/", h.createFixed)
	r.Patch("/{id}", h.updateFixed)
	r.Delete("/{id}", h.deleteFixed)
}

func (h *Handler) DebtRoutes(r chi.Router) {
	r.Get("/", h.listDebts)
	r.Post("/", h.createDebt)
	r.Patch("/{id}", h.updateDebt)
	r.Delete("/{id}", h.deleteDebt)
}

func (h *Handler) listFixed(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.FixedBills(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, bills)
}

type createFixedBillRequest struct {
	Name       string           `json:"name"`
	Amount     float64          `json:"amount"`
	Type       transaction.Type `json:"type"`
	CategoryID string           `json:"categoryId"`
	DueDay     int              `json:"dueDay"`
	Active     *bool            `json:"active"`
	TagIDs     []string         `json:"tagIds"`
}

func (h *Handler) createFixed(w http.ResponseWriter, r *http.Request) {
	var req createFixedBillRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	b, err := h.svc.AddFixedBill(r.Context(), bill.FixedBillParams{
		Name:       req.Name,
		Amount:     req.Amount,
		Type:       req.Type,
		CategoryID: req.CategoryID,
		DueDay:     req.DueDay,
		Active:     active,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, b)
}

type updateFixedBillRequest struct {
	Name       *string           `json:"name,omitempty"`
	Amount     *float64          `json:"amount,omitempty"`
	Type       *transaction.Type `json:"type,omitempty"`
	CategoryID *string           `json:"categoryId,omitempty"`
	DueDay     *int              `json:"dueDay,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	TagIDs     *[]string         `json:"tagIds,omitempty"`
}

func (h *Handler) updateFixed(w http.ResponseWriter, r *http.Request) {
	var req updateFixedBillRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	b, err := h.svc.UpdateFixedBill(r.Context(), chi.URLParam(r, "id"), bill.FixedBillPatch{
		Name:       req.Name,
		Amount:     req.Amount,
		Type:       req.Type,
		CategoryID: req.CategoryID,
		DueDay:     req.DueDay,
		Active:     req.Active,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, b)
}

func (h *Handler) deleteFixed(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteFixedBill(r.Context(), chi.URLParam(r, "id"))
	writeDeleted(w, deleted, err)
}

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.svc.InstallmentDebts(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, debts)
}

type createDebtRequest struct {
	Name          string   `json:"name"`
	TotalAmount   float64  `json:"totalAmount"`
	Installments  int      `json:"installments"`
	FirstDueMonth string   `json:"firstDueMonth"`
	DueDay        int      `json:"dueDay"`
	CategoryID    string   `json:"categoryId"`
	TagIDs        []string `json:"tagIds"`
}

func (h *Handler) createDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	d, err := h.svc.AddInstallmentDebt(r.Context(), bill.DebtParams{
		Name:          req.Name,
		TotalAmount:   req.TotalAmount,
		Installments:  req.Installments,
		FirstDueMonth: req.FirstDueMonth,
		DueDay:        req.DueDay,
		CategoryID:    req.CategoryID,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, d)
}

type updateDebtRequest struct {
	Name          *string   `json:"name,omitempty"`
	TotalAmount   *float64  `json:"totalAmount,omitempty"`
	Installments  *int      `json:"installments,omitempty"`
	FirstDueMonth *string   `json:"firstDueMonth,omitempty"`
	DueDay        *int      `json:"dueDay,omitempty"`
	CategoryID    *string   `json:"categoryId,omitempty"`
	TagIDs        *[]string `json:"tagIds,omitempty"`
}

func (h *Handler) updateDebt(w http.ResponseWriter, r *http.Request) {
	var req updateDebtRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	d, err := h.svc.UpdateInstallmentDebt(r.Context(), chi.URLParam(r, "id"), bill.DebtPatch{
		Name:          req.Name,
		TotalAmount:   req.TotalAmount,
		Installments:  req.Installments,
		FirstDueMonth: req.FirstDueMonth,
		DueDay:        req.DueDay,
		CategoryID:    req.CategoryID,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) deleteDebt(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteInstallmentDebt(r.Context(), chi.URLParam(r, "id"))
	writeDeleted(w, deleted, err)
}

func writeDeleted(w http.ResponseWriter, deleted bool, err error) {
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !deleted {
		respond.NotFound(w, "bill not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Projection serves GET /projection.
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	months, ok := h.months(w, r)
	if !ok {
		return
	}

	fixed, debts, err := h.load(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	paid, err := h.paid.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	out, err := bill.MonthlyProjection(fixed, debts, paid, bill.CurrentMonth(h.now()), months)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, out)
}

type upcomingItem struct {
	bill.Occurrence
	Paid bool `json:"paid"`
}

// Upcoming serves GET /upcoming; each item carries its paid marker.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	months, ok := h.months(w, r)
	if !ok {
		return
	}

	fixed, debts, err := h.load(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	paid, err := h.paid.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	items, err := bill.Upcoming(fixed, debts, bill.CurrentMonth(h.now()), months)
	if err != nil {
		respond.Error(w, err)
		return
	}

	marked := make(map[string]bool, len(paid))
	for _, id := range paid {
		marked[id] = true
	}

	out := make([]upcomingItem, len(items))
	for i, it := range items {
		out[i] = upcomingItem{Occurrence: it, Paid: marked[it.ID]}
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) months(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("months")
	if s == "" {
		return h.horizon, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxHorizon {
		respond.BadRequest(w, "months must be between 1 and "+strconv.Itoa(maxHorizon))
		return 0, false
	}

	return n, true
}

func (h *Handler) load(ctx context.Context) ([]*bill.FixedBill, []*bill.InstallmentDebt, error) {
	fixed, err := h.svc.FixedBills(ctx)
	if err != nil {
		return nil, nil, err
	}

	debts, err := h.svc.InstallmentDebts(ctx)
	if err != nil {
		return nil, nil, err
	}

	return fixed, debts, nil
}
