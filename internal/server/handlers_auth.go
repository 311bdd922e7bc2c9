package server

import (
	"net/http"

	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/models"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeMappedError(w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeMappedError(w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeMappedError(w, "current_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, user)
}
