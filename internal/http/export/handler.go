package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/summary", h.summary)
	r.Get("/download", h.download)
}

func filename(month, ext string) string {
	if month == "" {
		month = "all"
	}

	return fmt.Sprintf("transactions_%s.%s", month, ext)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	var buf bytes.Buffer
	if err := h.svc.WriteCSV(r.Context(), &buf, month); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename(month, "csv")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Rows(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(h.svc.Summary(rows))); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}

// download bundles the CSV and the text summary of the month into one zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	rows, err := h.svc.Rows(r.Context(), month)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var csvBuf bytes.Buffer
	if err := h.svc.WriteCSV(r.Context(), &csvBuf, month); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename(month, "zip")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	files := []struct {
		name string
		body []byte
	}{
		{filename(month, "csv"), csvBuf.Bytes()},
		{"summary.txt", []byte(h.svc.Summary(rows))},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			slog.Error("failed to create zip", "error", err)
			return
		}

		if _, err := zf.Write(f.body); err != nil {
			slog.Error("failed to create zip", "error", err)
			return
		}
	}
}
