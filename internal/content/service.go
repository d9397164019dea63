// Package content implements saving, listing, deleting and sharing of a
// user's links.
package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
	"github.com/ayush/second-brain/backend/internal/validation"
)

// Store defines the interface for content persistence.
type Store interface {
	CreateContent(ctx context.Context, c *models.Content) (*models.Content, error)
	FindContentByOwner(ctx context.Context, ownerID string, types models.ContentType) ([]models.Content, error)
	FindContentByID(ctx context.Context, id string) (*models.Content, error)
	DeleteContentByID(ctx context.Context, id string) error
}

// ShareStore is the part of the credential store content needs: owner
// lookups and share tokens.
type ShareStore interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByShareToken(ctx context.Context, token string) (*models.User, error)
	UpdateUserShareToken(ctx context.Context, userID, token string) error
}

// Service enforces who may read and change which content.
type Service struct {
	contents     Store
	users        ShareStore
	shareBaseURL string
	newToken     func() string
	validator    *validation.Validator
	logger       *slog.Logger
}

func NewService(contents Store, users ShareStore, shareBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		contents:     contents,
		users:        users,
		shareBaseURL: strings.TrimRight(shareBaseURL, "/"),
		newToken:     uuid.NewString,
		validator:    validation.New(),
		logger:       logger,
	}
}

// AddContent stores one item owned by userID, which must name an existing
// user.
func (s *Service) AddContent(ctx context.Context, userID string, req models.CreateContentRequest) (*models.Content, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	saved, err := s.contents.CreateContent(ctx, &models.Content{
		Types:  req.Types,
		Link:   req.Link,
		Title:  req.Title,
		Tags:   req.Tags,
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "content added", "user_id", userID, "content_id", saved.ID.Hex(), "types", saved.Types)
	return saved, nil
}

// requireUser maps a missing or unknown user id to apperr.ErrUnauthenticated.
func (s *Service) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.ErrUnauthenticated
	}
	_, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		s.logger.WarnContext(ctx, "token names unknown user", "user_id", userID)
		return apperr.ErrUnauthenticated
	}
	return err
}

// ListOwnContent returns the caller's items, optionally limited to one type.
func (s *Service) ListOwnContent(ctx context.Context, userID string, types models.ContentType) ([]models.Content, error) {
	if userID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	if types != "" && !types.Persistable() && types != models.TypeLink {
		return nil, &apperr.ValidationError{Fields: []apperr.FieldError{{
			Field: "types",
			Rule:  "oneof",
			Param: "document Twitter youtube link",
		}}}
	}
	return s.contents.FindContentByOwner(ctx, userID, types)
}

// DeleteContent removes an item by id. Any authenticated caller may delete
// any item; a caller other than the owner is only logged.
func (s *Service) DeleteContent(ctx context.Context, callerID, id string) error {
	if callerID == "" {
		return apperr.ErrUnauthenticated
	}
	if id == "" {
		return apperr.Invalid("id", "required")
	}
	item, err := s.contents.FindContentByID(ctx, id)
	if err != nil {
		return err
	}
	if item.UserID != callerID {
		s.logger.WarnContext(ctx, "content deleted by non-owner",
			"caller_id", callerID, "owner_id", item.UserID, "content_id", id)
	}
	return s.contents.DeleteContentByID(ctx, id)
}

// GenerateShareLink issues a fresh share token for userID, replacing any
// previous one, and returns the public URL.
func (s *Service) GenerateShareLink(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.ErrUnauthenticated
	}
	token := s.newToken()
	if err := s.users.UpdateUserShareToken(ctx, userID, token); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "share link generated", "user_id", userID)
	return s.shareBaseURL + "/shared/" + token, nil
}

// GetSharedContent resolves a share token to the owner's whole collection.
func (s *Service) GetSharedContent(ctx context.Context, token string) (*models.SharedCollection, error) {
	if token == "" {
		return nil, apperr.Invalid("shareToken", "required")
	}
	owner, err := s.users.FindUserByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	items, err := s.contents.FindContentByOwner(ctx, owner.ID, "")
	if err != nil {
		return nil, err
	}
	return &models.SharedCollection{Contents: items, OwnerName: owner.Username}, nil
}
