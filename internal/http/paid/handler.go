package paid

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/paid"
)

type Handler struct {
	svc *paid.Service
}

func NewHandler(svc *paid.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/", h.replace)
	r.Post("/{itemId}/toggle", h.toggle)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ids)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if !respond.Decode(w, r, &ids) {
		return
	}

	if err := h.svc.SetAll(r.Context(), ids); err != nil {
		respond.Error(w, err)
		return
	}

	h.list(w, r)
}

type toggleResponse struct {
	ID   string `json:"id"`
	Paid bool   `json:"paid"`
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemId")

	marked, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toggleResponse{ID: id, Paid: marked})
}
