package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/model"
)

type PGUsers struct {
	db DB
}

func NewPGUsers(db DB) *PGUsers {
	return &PGUsers{db: db}
}

func (r *PGUsers) Create(ctx context.Context, user model.User) (model.User, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return model.User{}, apperr.Conflict("Username already in use")
			}
			return model.User{}, apperr.Conflict("Email already in use")
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *PGUsers) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getBy(ctx, `id`, id)
}

func (r *PGUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, `email`, email)
}

func (r *PGUsers) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getBy(ctx, `username`, username)
}

func (r *PGUsers) getBy(ctx context.Context, column, value string) (model.User, error) {
	var user model.User
	row := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
