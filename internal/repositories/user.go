package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/models"
)

// ErrUserConflict is returned when an insert loses the race against a
// concurrent registration and hits the unique constraint on username
// or email.
var ErrUserConflict = errors.New("username or email already taken")

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the user with the given username, or nil when
// no such user exists.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT id, username, name, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Exists reports whether any user already holds the given username or
// email.
func (r *UserReadRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR email = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"result", exists,
		"error", err,
	)

	return exists, err
}

// List returns all users ordered by creation time. The password hash is
// never part of this projection.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserListItem, error) {
	const query = `
		SELECT id, username, name, email, created_at
		FROM users
		ORDER BY created_at
	`

	var users []models.UserListItem
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the assigned id. A unique
// violation on username or email surfaces as ErrUserConflict.
func (r *UserWriteRepository) Save(ctx context.Context, username, name, email, passwordHash string) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (id, username, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	id := uuid.New()
	args := []any{id, username, name, email, passwordHash}

	var inserted uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&inserted)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, username, name, email, "<redacted>"},
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return uuid.Nil, ErrUserConflict
	}
	if err != nil {
		return uuid.Nil, err
	}

	return inserted, nil
}
