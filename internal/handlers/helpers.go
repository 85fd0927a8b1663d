// Package handlers adapts the HTTP surface onto the service layer. It
// owns no business rules beyond decoding, boundary validation of user
// payloads, and the error-to-status mapping.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"filmgraph/internal/logging"
	"filmgraph/internal/services"
	"filmgraph/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the error taxonomy onto HTTP statuses:
// validation failures are 400, unresolved identifiers are 404, and
// everything else is a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrFilmNotFound),
		errors.Is(err, storage.ErrGenreNotFound),
		errors.Is(err, storage.ErrMpaNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.Error("Unexpected service error", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func parsePathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
