// Package repository provides persistence for users, tickets and
// comments. The pgx implementations are the production path; the memory
// implementations back tests and local development without a database.
// Missing rows surface as apperr NotFound and unique-constraint hits as
// apperr Conflict, so callers never see driver errors.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gilbertouk/gamer-support/internal/model"
)

// deletedAuthor is the display name for comments whose author row no
// longer exists. Part of the wire format.
const deletedAuthor = "Usuário deletado"

type Users interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

type Tickets interface {
	Create(ctx context.Context, ticket model.Ticket) (model.Ticket, error)
	GetByID(ctx context.Context, id string) (model.Ticket, error)
	List(ctx context.Context) ([]model.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]model.Ticket, error)
	Comments(ctx context.Context, ticketID string) ([]model.Comment, error)
	AddComment(ctx context.Context, ticketID, userID, message string) (model.Comment, error)
	UpdateStatus(ctx context.Context, ticketID, status string) (model.Ticket, error)
	Delete(ctx context.Context, ticketID string) error
}

// DB is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
