package handlers

import (
	"net/http"
	"strconv"

	"filmgraph/internal/services"
)

type ReferenceHandler struct {
	reference *services.ReferenceService
}

func NewReferenceHandler(reference *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference}
}

func (h *ReferenceHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.reference.ListGenres(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (h *ReferenceHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid genre ID")
		return
	}

	genre, err := h.reference.GetGenre(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (h *ReferenceHandler) ListMpa(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.reference.ListMpa(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *ReferenceHandler) GetMpa(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mpa ID")
		return
	}

	rating, err := h.reference.GetMpa(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}
