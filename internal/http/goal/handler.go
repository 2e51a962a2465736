package goal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/goal"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Handler struct {
	svc *goal.Service
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/deposit", h.deposit)
	r.Post("/{id}/paid", h.markAsPaid)
}

type goalResponse struct {
	*goal.Goal
	Progress float64 `json:"progress"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{Goal: g, Progress: g.Progress()}
}

func toResponseList(goals []*goal.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(goals))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

type createGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.svc.Add(r.Context(), goal.CreateParams{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

type updateGoalRequest struct {
	Name          *string  `json:"name,omitempty"`
	TargetAmount  *float64 `json:"targetAmount,omitempty"`
	CurrentAmount *float64 `json:"currentAmount,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
	CompletedAt   *string  `json:"completedAt,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateGoalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), goal.Patch{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		CompletedAt:   req.CompletedAt,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !deleted {
		respond.NotFound(w, "goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type depositRequest struct {
	Amount                   float64 `json:"amount"`
	CreateExpenseTransaction bool    `json:"createExpenseTransaction"`
	ExpenseCategoryID        string  `json:"expenseCategoryId"`
}

type resultResponse struct {
	Goal        goalResponse             `json:"goal"`
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
	Link        string                   `json:"link"`
	Warning     string                   `json:"warning,omitempty"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if !(req.Amount > 0) {
		respond.BadRequest(w, "amount must be greater than zero")
		return
	}

	res, err := h.svc.Deposit(r.Context(), chi.URLParam(r, "id"), req.Amount, goal.DepositOptions{
		CreateExpenseTransaction: req.CreateExpenseTransaction,
		ExpenseCategoryID:        req.ExpenseCategoryID,
	})
	h.writeResult(w, res, err)
}

type paidRequest struct {
	CreateInvestmentTransaction bool   `json:"createInvestmentTransaction"`
	InvestmentCategoryID        string `json:"investmentCategoryId"`
}

func (h *Handler) markAsPaid(w http.ResponseWriter, r *http.Request) {
	var req paidRequest
	if r.ContentLength != 0 && !respond.Decode(w, r, &req) {
		return
	}

	res, err := h.svc.MarkAsPaid(r.Context(), chi.URLParam(r, "id"), goal.PaidOptions{
		CreateInvestmentTransaction: req.CreateInvestmentTransaction,
		InvestmentCategoryID:        req.InvestmentCategoryID,
	})
	h.writeResult(w, res, err)
}

// writeResult answers 200 for a pending link: the goal change is already on disk.
func (h *Handler) writeResult(w http.ResponseWriter, res *goal.Result, err error) {
	if err != nil && !(errors.Is(err, goal.ErrLinkPending) && res != nil) {
		respond.Error(w, err)
		return
	}

	resp := resultResponse{
		Goal:        toResponse(res.Goal),
		Transaction: res.Transaction,
		Link:        res.Link.String(),
	}

	if err != nil {
		slog.Warn("goal transaction left unlinked", "goal", res.Goal.ID, "error", err)
		resp.Warning = err.Error()
	}

	respond.JSON(w, http.StatusOK, resp)
}
