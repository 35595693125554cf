package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iammorganparry/taskplanner/internal/auth"
	"github.com/iammorganparry/taskplanner/internal/models"
	"github.com/iammorganparry/taskplanner/internal/store"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.svc.Register(req.Name, req.Email, req.Password); err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeFieldError(w, http.StatusBadRequest, verr.Field, verr.Message)
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusConflict, "this email is already registered")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Account created. You can sign in now.",
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, user, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token.Token,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: token.ExpiresAt,
	})
}

// SignOut handles POST /auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, _ := strings.CutPrefix(header, "Bearer ")
	if token != "" {
		if err := h.svc.SignOut(token); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
