package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/httpx"
	"github.com/ayush/second-brain/backend/internal/models"
)

const (
	msgPasswordRules  = "Password should be 8 to 20 letters, should have atleast one uppercase, one lowercase, one special character, one number"
	msgBadCredentials = "Enter Correct Username & password"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Signup creates a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Invalid(w, msgPasswordRules, nil)
		return
	}

	_, err := h.svc.Signup(r.Context(), req)
	switch {
	case err == nil:
		httpx.Message(w, http.StatusCreated, "You are Signed Up!")
	case errors.Is(err, apperr.ErrValidation):
		httpx.Invalid(w, msgPasswordRules, err)
	case errors.Is(err, apperr.ErrDuplicate):
		httpx.Message(w, http.StatusInternalServerError, "User Already Exist")
	default:
		h.logger.ErrorContext(r.Context(), "signup failed", "error", err)
		httpx.Message(w, http.StatusInternalServerError, "Database connection error")
	}
}

// Signin authenticates a user and returns a session token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Invalid(w, msgBadCredentials, nil)
		return
	}

	token, err := h.svc.Signin(r.Context(), req)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, models.SigninResponse{Message: "You are Signed In!", Token: token})
	case errors.Is(err, apperr.ErrValidation):
		httpx.Invalid(w, msgBadCredentials, err)
	case errors.Is(err, apperr.ErrTooManyAttempts):
		httpx.Message(w, http.StatusTooManyRequests, "Too many signin attempts, try again later")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		httpx.Message(w, http.StatusForbidden, "Invalid Credentials")
	default:
		h.logger.ErrorContext(r.Context(), "signin failed", "error", err)
		httpx.Message(w, http.StatusInternalServerError, "Server Error!")
	}
}
