package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"microfin/internal/store"
	"microfin/internal/validator"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"users": users, "count": len(users)})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]any{"user": user})
}

type updateUserRequest struct {
	Firstname string `json:"firstname"`
	Surname   string `json:"surname"`
	Username  string `json:"username"`
	Contact   string `json:"contact"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Verified  *bool  `json:"verified"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Role != "" {
		if err := validator.ValidateRole(req.Role); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	userID := chi.URLParam(r, "id")
	affected, err := h.users.Update(r.Context(), userID, store.UserUpdate{
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Username:  req.Username,
		Contact:   req.Contact,
		Role:      req.Role,
		Status:    req.Status,
		Verified:  req.Verified,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondSuccess(w, http.StatusOK, "user updated", map[string]any{"user": user})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	affected, err := h.users.SoftDelete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondSuccess(w, http.StatusOK, "user deleted", nil)
}
