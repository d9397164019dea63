package content

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/httpx"
	"github.com/ayush/second-brain/backend/internal/middleware"
	"github.com/ayush/second-brain/backend/internal/models"
)

// ListResponse is the body of GET /content. The key name is what the web
// client reads.
type ListResponse struct {
	Items []models.Content `json:"user"`
}

// ShareResponse is the body of POST /share.
type ShareResponse struct {
	Message       string `json:"message"`
	ShareableLink string `json:"shareableLink"`
}

// Handler holds content HTTP handlers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create saves a new item for the authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req models.CreateContentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Invalid(w, "Invalid content", nil)
		return
	}

	_, err := h.svc.AddContent(r.Context(), userID, req)
	switch {
	case err == nil:
		httpx.Message(w, http.StatusCreated, "Content Added Successfully!")
	case errors.Is(err, apperr.ErrValidation):
		httpx.Invalid(w, "Invalid content", err)
	case errors.Is(err, apperr.ErrUnauthenticated):
		httpx.Message(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.ErrorContext(r.Context(), "add content failed", "error", err, "user_id", userID)
		httpx.Message(w, http.StatusInternalServerError, "Server Error!")
	}
}

// List returns every item owned by the authenticated user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	types := models.ContentType(r.URL.Query().Get("types"))

	items, err := h.svc.ListOwnContent(r.Context(), userID, types)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, ListResponse{Items: items})
	case errors.Is(err, apperr.ErrValidation):
		httpx.Invalid(w, "Invalid content type", err)
	case errors.Is(err, apperr.ErrUnauthenticated):
		httpx.Message(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.ErrorContext(r.Context(), "list content failed", "error", err, "user_id", userID)
		httpx.Message(w, http.StatusNotFound, "User not Found!")
	}
}

// Delete removes an item by id.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := h.svc.DeleteContent(r.Context(), userID, id)
	switch {
	case err == nil:
		httpx.Message(w, http.StatusOK, "Deleted Successfully!")
	case errors.Is(err, apperr.ErrValidation):
		httpx.Message(w, http.StatusBadRequest, "id must be provided!")
	case errors.Is(err, apperr.ErrNotFound):
		httpx.Message(w, http.StatusNotFound, "Content Doesn't exist!")
	case errors.Is(err, apperr.ErrUnauthenticated):
		httpx.Message(w, http.StatusUnauthorized, "Unauthorized")
	default:
		h.logger.ErrorContext(r.Context(), "delete content failed", "error", err, "content_id", id)
		httpx.Message(w, http.StatusInternalServerError, "server Error")
	}
}

// Share generates a new public share link for the authenticated user.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	link, err := h.svc.GenerateShareLink(r.Context(), userID)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, ShareResponse{
			Message:       "Shareable Link Generated Successfully!",
			ShareableLink: link,
		})
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrNotFound):
		httpx.Message(w, http.StatusBadRequest, "Unauthorised!")
	default:
		h.logger.ErrorContext(r.Context(), "generate share link failed", "error", err, "user_id", userID)
		httpx.Message(w, http.StatusInternalServerError, "Server Error!")
	}
}

// Shared returns the collection behind a share token. No authentication.
func (h *Handler) Shared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "shareToken")

	coll, err := h.svc.GetSharedContent(r.Context(), token)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, coll)
	case errors.Is(err, apperr.ErrValidation):
		httpx.Message(w, http.StatusBadRequest, "ShareToken is Required!")
	case errors.Is(err, apperr.ErrNotFound):
		httpx.Message(w, http.StatusNotFound, "Content Not Found!")
	default:
		h.logger.ErrorContext(r.Context(), "shared content failed", "error", err)
		httpx.Message(w, http.StatusInternalServerError, "Server Error!")
	}
}
