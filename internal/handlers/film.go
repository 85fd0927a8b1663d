package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"filmgraph/internal/models"
	"filmgraph/internal/services"
)

type FilmHandler struct {
	films *services.FilmService
}

func NewFilmHandler(films *services.FilmService) *FilmHandler {
	return &FilmHandler{films: films}
}

func (h *FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

func (h *FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.films.Create(r.Context(), film)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	var film models.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.films.Update(r.Context(), film)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid film ID")
		return
	}

	film, err := h.films.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, film)
}

func (h *FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePair(w, r)
	if !ok {
		return
	}
	if err := h.films.AddLike(r.Context(), filmID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Like added"})
}

func (h *FilmHandler) DeleteLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePair(w, r)
	if !ok {
		return
	}
	if err := h.films.DeleteLike(r.Context(), filmID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Like removed"})
}

// Popular answers /films/popular?count=N; count defaults to 10 and
// must be a positive integer.
func (h *FilmHandler) Popular(w http.ResponseWriter, r *http.Request) {
	count := services.DefaultPopularLimit
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "count must be a positive integer")
			return
		}
		count = parsed
	}

	films, err := h.films.Popular(r.Context(), count)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, films)
}

func (h *FilmHandler) likePair(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	filmID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid film ID")
		return 0, 0, false
	}
	userID, err := parsePathID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}
	return filmID, userID, true
}
