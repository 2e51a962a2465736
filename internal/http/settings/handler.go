package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/settings"
)

type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.save)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var st settings.AppSettings
	if !respond.Decode(w, r, &st) {
		return
	}

	if err := h.svc.Save(r.Context(), st); err != nil {
		respond.Error(w, err)
		return
	}

	h.get(w, r)
}
