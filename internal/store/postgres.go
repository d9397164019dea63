package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgreSQL SQLSTATE codes.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// DBTX is the subset of database/sql used by PostgresStore. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// gooseUp is a seam for testing migrations without a database.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded users schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// PostgresStore handles user CRUD against PostgreSQL.
type PostgresStore struct {
	db DBTX
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	u := models.User{Username: username, Password: password}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, created_at`,
		username, password,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("create user %q: %w", username, apperr.ErrDuplicate)
		}
		return nil, fmt.Errorf("%w: create user: %w", apperr.ErrStore, err)
	}
	return &u, nil
}

func (s *PostgresStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, `SELECT id, username, password, share_token, created_at FROM users WHERE username = $1`, username)
}

// FindUserByID looks a user up by primary key. An id that is not a UUID
// matches nobody.
func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, apperr.ErrNotFound
	}
	return s.findUser(ctx, `SELECT id, username, password, share_token, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) FindUserByShareToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrNotFound
	}
	return s.findUser(ctx, `SELECT id, username, password, share_token, created_at FROM users WHERE share_token = $1`, token)
}

// UpdateUserShareToken overwrites the user's share token.
func (s *PostgresStore) UpdateUserShareToken(ctx context.Context, userID, token string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET share_token = $1 WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("%w: update share token: %w", apperr.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update share token: %w", apperr.ErrStore, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) findUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u     models.User
		share sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password, &share, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", apperr.ErrStore, err)
	}
	if share.Valid {
		u.ShareToken = &share.String
	}
	return &u, nil
}
