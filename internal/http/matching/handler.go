package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.rules)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string `json:"rawDescription"`
	CategoryID     string `json:"categoryId"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		respond.BadRequest(w, "raw_description query parameter is required")
		return
	}

	categoryID, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{
		RawDescription: rawDesc,
		CategoryID:     categoryID,
	})
}

type learnRequest struct {
	Pattern    string `json:"pattern"`
	CategoryID string `json:"categoryId"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.CategoryID); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) rules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, rules)
}
