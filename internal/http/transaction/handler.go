package transaction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/months", h.months)
	r.Get("/summary", h.summary)
	r.Patch("/bulk", h.updateBulk)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Date        string                  `json:"date"`
	Description string                  `json:"description"`
	Amount      float64                 `json:"amount"`
	Type        transaction.Type        `json:"type"`
	CategoryID  string                  `json:"categoryId"`
	TagIDs      []string                `json:"tagIds"`
	Recurring   *transaction.Recurrence `json:"recurring"`
}

func (req createTransactionRequest) params() transaction.CreateParams {
	return transaction.CreateParams{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
		Recurring:   req.Recurring,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.Add(r.Context(), req.params())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, txs)
}

func (h *Handler) months(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.Months(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, months)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, sum)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, tx)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	if !deleted {
		respond.NotFound(w, "transaction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Date        *string           `json:"date,omitempty"`
	Description *string           `json:"description,omitempty"`
	Amount      *float64          `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	CategoryID  *string           `json:"categoryId,omitempty"`
	TagIDs      *[]string         `json:"tagIds,omitempty"`
	// Recurring distinguishes an absent key from an explicit null, which clears the flag.
	Recurring json.RawMessage `json:"recurring,omitempty"`
}

func (req updateTransactionRequest) patch() (transaction.Patch, error) {
	p := transaction.Patch{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	}

	if len(req.Recurring) == 0 {
		return p, nil
	}

	var rec *transaction.Recurrence
	if err := json.Unmarshal(req.Recurring, &rec); err != nil {
		return p, err
	}

	if rec == nil {
		p.ClearRecurring = true
	} else {
		p.Recurring = rec
	}

	return p, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	patch, err := req.patch()
	if err != nil {
		respond.BadRequest(w, "invalid recurring: "+err.Error())
		return
	}

	tx, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, tx)
}

type bulkUpdateRequest struct {
	IDs        []string  `json:"ids"`
	CategoryID *string   `json:"categoryId,omitempty"`
	TagIDs     *[]string `json:"tagIds,omitempty"`
}

type bulkUpdateResponse struct {
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// updateBulk reports the partial count even when some updates failed.
func (h *Handler) updateBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	count, err := h.svc.UpdateBulk(r.Context(), req.IDs, transaction.BulkPatch{
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})

	resp := bulkUpdateResponse{Updated: count}
	if err != nil {
		resp.Error = err.Error()
	}

	respond.JSON(w, http.StatusOK, resp)
}
