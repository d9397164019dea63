package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
	"github.com/ayush/second-brain/backend/internal/validation"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service implements signup and signin.
type Service struct {
	users     UserStore
	tokens    *TokenService
	passwords Passwords
	throttle  *Throttle
	validator *validation.Validator
	logger    *slog.Logger
}

func NewService(users UserStore, tokens *TokenService, passwords Passwords, throttle *Throttle, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		throttle:  throttle,
		validator: validation.New(),
		logger:    logger,
	}
}

// Signup validates the credentials and creates the user. A taken username
// yields apperr.ErrDuplicate.
func (s *Service) Signup(ctx context.Context, req models.CredentialsRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	stored, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, req.Username, stored)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Signin checks the credentials and returns a session token.
func (s *Service) Signin(ctx context.Context, req models.CredentialsRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}
	if !s.throttle.Allow(ctx, req.Username) {
		return "", apperr.ErrTooManyAttempts
	}

	user, err := s.users.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !s.passwords.Matches(user.Password, req.Password) {
		return "", apperr.ErrInvalidCredentials
	}

	s.throttle.Reset(ctx, req.Username)
	return s.tokens.Issue(user.ID)
}
