// Package respond holds the JSON plumbing shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/caixa/internal/bill"
	"github.com/MrJamesThe3rd/caixa/internal/goal"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status matching its kind: 404 for missing records,
// 400 for rejected input and 500 for the rest.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	resp := errorResponse{Error: err.Error()}

	var verr *validate.Error
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		resp.Error = "internal error"
	}

	JSON(w, status, resp)
}

func Status(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, goal.ErrNotFound),
		errors.Is(err, bill.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, validate.ErrInvalid):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Decode reads a JSON body into v and answers 400 itself when it cannot.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}

	return true
}

func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusNotFound, errorResponse{Error: msg})
}
