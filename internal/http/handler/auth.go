package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"spendiario/internal/auth"
)

type AuthHandler struct {
	Users *auth.Service
	JWT   *auth.JWT
	Dev   bool
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        uint64     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *auth.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Reason)
		case errors.Is(err, auth.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "email already registered")
		default:
			writeInternal(w, err, h.Dev)
		}
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		writeInternal(w, err, h.Dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered",
		"token":   token,
		"user":    userDTO{ID: u.ID, Email: u.Email},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *auth.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Reason)
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeInternal(w, err, h.Dev)
		}
		return
	}

	token, err := h.JWT.Sign(u.ID)
	if err != nil {
		writeInternal(w, err, h.Dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    userDTO{ID: u.ID, Email: u.Email},
	})
}

// Me returns the authenticated user; clients use it to restore a session
// from a stored token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	created := u.CreatedAt
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userDTO{ID: u.ID, Email: u.Email, CreatedAt: &created},
	})
}
