package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"filmgraph/internal/models"
	"filmgraph/internal/services"
)

type UserHandler struct {
	users    *services.UserService
	validate *validator.Validate
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
	}
}

// UserPayload is the create/update body. Field-level constraints are
// structural and enforced here at the boundary; the name-defaulting
// rule stays in the service.
type UserPayload struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email" validate:"required,email"`
	Login    string      `json:"login" validate:"required"`
	Name     string      `json:"name"`
	Birthday models.Date `json:"birthday"`
}

func (h *UserHandler) checkPayload(p UserPayload) error {
	if err := h.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", services.ErrValidation, err.Error())
	}
	if strings.ContainsAny(p.Login, " \t\r\n") {
		return fmt.Errorf("%w: login must not contain whitespace", services.ErrValidation)
	}
	if p.Birthday.After(time.Now()) {
		return fmt.Errorf("%w: birthday must not be in the future", services.ErrValidation)
	}
	return nil
}

func (p UserPayload) toModel() models.User {
	return models.User{
		ID:       p.ID,
		Email:    p.Email,
		Login:    p.Login,
		Name:     p.Name,
		Birthday: p.Birthday,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.checkPayload(payload); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), payload.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.checkPayload(payload); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), payload.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.users.AddFriend(r.Context(), userID, friendID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend added"})
}

func (h *UserHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPair(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteFriend(r.Context(), userID, friendID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	friends, err := h.users.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *UserHandler) ListCommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	otherID, err := parsePathID(r, "otherId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	common, err := h.users.ListCommonFriends(r.Context(), userID, otherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common)
}

func (h *UserHandler) friendPair(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}
	friendID, err := parsePathID(r, "friendId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friend ID")
		return 0, 0, false
	}
	return userID, friendID, true
}
