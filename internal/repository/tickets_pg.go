package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/model"
)

type PGTickets struct {
	db DB
}

func NewPGTickets(db DB) *PGTickets {
	return &PGTickets{db: db}
}

const ticketColumns = `id, user_id, title, game, description, urgency, status, created_at, updated_at`

func (r *PGTickets) Create(ctx context.Context, ticket model.Ticket) (model.Ticket, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tickets (id, user_id, title, game, description, urgency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ticket.ID, ticket.UserID, ticket.Title, ticket.Game, ticket.Description, ticket.Urgency, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return model.Ticket{}, apperr.NotFound("user not found")
		}
		return model.Ticket{}, err
	}
	return ticket, nil
}

func (r *PGTickets) GetByID(ctx context.Context, id string) (model.Ticket, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE id = $1
	`, id)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, apperr.NotFound("Ticket not found")
	}
	if err != nil {
		return model.Ticket{}, err
	}
	return ticket, nil
}

func (r *PGTickets) List(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *PGTickets) ListByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

func (r *PGTickets) Comments(ctx context.Context, ticketID string) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.ticket_id, c.message,
		       COALESCE(u.username, '`+deletedAuthor+`'),
		       COALESCE(u.role = 'ADMIN', false),
		       c.created_at
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.ticket_id = $1
		ORDER BY c.created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(&comment.ID, &comment.TicketID, &comment.Message, &comment.Author, &comment.IsAdmin, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *PGTickets) AddComment(ctx context.Context, ticketID, userID, message string) (model.Comment, error) {
	comment := model.Comment{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, ticket_id, user_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.TicketID, userID, comment.Message, comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return model.Comment{}, apperr.NotFound("Ticket not found")
		}
		return model.Comment{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT username, role FROM users WHERE id = $1`, userID)
	var username, role string
	switch err := row.Scan(&username, &role); {
	case errors.Is(err, pgx.ErrNoRows):
		comment.Author = deletedAuthor
	case err != nil:
		return model.Comment{}, err
	default:
		comment.Author = username
		comment.IsAdmin = role == model.RoleAdmin
	}
	return comment, nil
}

func (r *PGTickets) UpdateStatus(ctx context.Context, ticketID, status string) (model.Ticket, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+ticketColumns+`
	`, status, time.Now().UTC(), ticketID)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, apperr.NotFound("Ticket not found")
	}
	if err != nil {
		return model.Ticket{}, err
	}
	return ticket, nil
}

// Delete removes the ticket; its comments go with it via ON DELETE
// CASCADE.
func (r *PGTickets) Delete(ctx context.Context, ticketID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ticket not found")
	}
	return nil
}

func scanTicket(row pgx.Row) (model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Title,
		&ticket.Game,
		&ticket.Description,
		&ticket.Urgency,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	return ticket, err
}

func collectTickets(rows pgx.Rows) ([]model.Ticket, error) {
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}
