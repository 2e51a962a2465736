package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type createParamsDTO struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Type        transaction.Type `json:"type"`
	CategoryID  string           `json:"categoryId"`
	TagIDs      []string         `json:"tagIds"`
}

type importResponse struct {
	Imported     int                        `json:"imported"`
	Transactions []*transaction.Transaction `json:"transactions"`
	Error        string                     `json:"error,omitempty"`
}

type previewResponse struct {
	Params []createParamsDTO `json:"params"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

// importCSV parses the uploaded statement. With preview=true the categorised rows
// are returned for review and nothing is written; otherwise every row is added.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	bank := importer.Bank(r.FormValue("bank"))

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.svc.Preview(r.Context(), bank, file)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if preview, _ := strconv.ParseBool(r.FormValue("preview")); preview {
		resp := previewResponse{Params: make([]createParamsDTO, 0, len(params))}
		for _, p := range params {
			resp.Params = append(resp.Params, toParamsDTO(p))
		}

		respond.JSON(w, http.StatusOK, resp)

		return
	}

	created, err := h.svc.Confirm(r.Context(), params)
	writeCreated(w, created, err)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Date:        p.Date,
			Description: p.Description,
			Amount:      p.Amount,
			Type:        p.Type,
			CategoryID:  p.CategoryID,
			TagIDs:      p.TagIDs,
		})
	}

	created, err := h.svc.Confirm(r.Context(), params)
	writeCreated(w, created, err)
}

// writeCreated reports the rows added before a failure alongside the error.
func writeCreated(w http.ResponseWriter, created []*transaction.Transaction, err error) {
	if created == nil {
		created = []*transaction.Transaction{}
	}

	resp := importResponse{Imported: len(created), Transactions: created}

	if err != nil {
		resp.Error = err.Error()
		respond.JSON(w, respond.Status(err), resp)

		return
	}

	respond.JSON(w, http.StatusCreated, resp)
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	tags := p.TagIDs
	if tags == nil {
		tags = []string{}
	}

	return createParamsDTO{
		Date:        p.Date,
		Description: p.Description,
		Amount:      p.Amount,
		Type:        p.Type,
		CategoryID:  p.CategoryID,
		TagIDs:      tags,
	}
}
