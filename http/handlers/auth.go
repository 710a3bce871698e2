package handlers

import (
	"encoding/json"
	"net/http"

	"enrollment-module/http/response"
	"enrollment-module/services"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.auth.Register(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Account created", account)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, account, err := h.auth.Login(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Logged in", map[string]interface{}{
		"token":   token,
		"account": account,
	})
}
