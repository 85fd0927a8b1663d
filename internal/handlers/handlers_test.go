package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmgraph/internal/services"
	"filmgraph/internal/storage/memory"
)

// newTestMux wires the full HTTP surface over a fresh in-memory store.
func newTestMux() *http.ServeMux {
	store := memory.NewStore()
	userService := services.NewUserService(store, store)
	filmService := services.NewFilmService(store, store, store, store, userService)
	referenceService := services.NewReferenceService(store, store)

	userHandler := NewUserHandler(userService)
	filmHandler := NewFilmHandler(filmService)
	referenceHandler := NewReferenceHandler(referenceService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("POST /users", userHandler.Create)
	mux.HandleFunc("PUT /users", userHandler.Update)
	mux.HandleFunc("GET /users/{id}", userHandler.Get)
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", userHandler.AddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", userHandler.DeleteFriend)
	mux.HandleFunc("GET /users/{id}/friends", userHandler.ListFriends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", userHandler.ListCommonFriends)

	mux.HandleFunc("GET /films", filmHandler.List)
	mux.HandleFunc("POST /films", filmHandler.Create)
	mux.HandleFunc("PUT /films", filmHandler.Update)
	mux.HandleFunc("GET /films/popular", filmHandler.Popular)
	mux.HandleFunc("GET /films/{id}", filmHandler.Get)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", filmHandler.AddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", filmHandler.DeleteLike)

	mux.HandleFunc("GET /genres", referenceHandler.ListGenres)
	mux.HandleFunc("GET /genres/{id}", referenceHandler.GetGenre)
	mux.HandleFunc("GET /mpa", referenceHandler.ListMpa)
	mux.HandleFunc("GET /mpa/{id}", referenceHandler.GetMpa)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}
