package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/model"
)

func testTicket() model.Ticket {
	now := time.Now().UTC()
	return model.Ticket{
		ID:          "7f1e2a33-90cc-4b8f-b6dc-8e3f4f6a1c01",
		UserID:      "0b7aaf76-7e6b-4d36-9bb5-0d2cbf1010b1",
		Title:       "Cannot join ranked queue",
		Game:        "StarForge",
		Description: "Queue button is greyed out since the last patch.",
		Urgency:     model.UrgencyAgora,
		Status:      model.StatusAberto,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPGTicketsCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ticket := testTicket()
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(ticket.ID, ticket.UserID, ticket.Title, ticket.Game, ticket.Description, ticket.Urgency, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := NewPGTickets(mock).Create(context.Background(), ticket)
	require.NoError(t, err)
	require.Equal(t, ticket, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGTicketsGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM tickets").
		WithArgs("missing-id").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "game", "description", "urgency", "status", "created_at", "updated_at"}))

	_, err = NewPGTickets(mock).GetByID(context.Background(), "missing-id")
	require.True(t, apperr.IsNotFound(err))
}

func TestPGTicketsListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ticket := testTicket()
	rows := pgxmock.NewRows([]string{"id", "user_id", "title", "game", "description", "urgency", "status", "created_at", "updated_at"}).
		AddRow(ticket.ID, ticket.UserID, ticket.Title, ticket.Game, ticket.Description, ticket.Urgency, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt)
	mock.ExpectQuery("SELECT (.+) FROM tickets").
		WithArgs(ticket.UserID).
		WillReturnRows(rows)

	tickets, err := NewPGTickets(mock).ListByUser(context.Background(), ticket.UserID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, ticket.ID, tickets[0].ID)
}

func TestPGTicketsCommentsDeletedAuthor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ticket := testTicket()
	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "ticket_id", "message", "author", "is_admin", "created_at"}).
		AddRow("c1", ticket.ID, "any update on this?", deletedAuthor, false, now)
	mock.ExpectQuery("SELECT (.+) FROM comments").
		WithArgs(ticket.ID).
		WillReturnRows(rows)

	comments, err := NewPGTickets(mock).Comments(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, deletedAuthor, comments[0].Author)
	require.False(t, comments[0].IsAdmin)
}

func TestPGTicketsDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM tickets").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = NewPGTickets(mock).Delete(context.Background(), "missing-id")
	require.True(t, apperr.IsNotFound(err))
}

func TestPGTicketsUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ticket := testTicket()
	rows := pgxmock.NewRows([]string{"id", "user_id", "title", "game", "description", "urgency", "status", "created_at", "updated_at"}).
		AddRow(ticket.ID, ticket.UserID, ticket.Title, ticket.Game, ticket.Description, ticket.Urgency, model.StatusResolvido, ticket.CreatedAt, time.Now().UTC())
	mock.ExpectQuery("UPDATE tickets").
		WithArgs(model.StatusResolvido, pgxmock.AnyArg(), ticket.ID).
		WillReturnRows(rows)

	updated, err := NewPGTickets(mock).UpdateStatus(context.Background(), ticket.ID, model.StatusResolvido)
	require.NoError(t, err)
	require.Equal(t, model.StatusResolvido, updated.Status)
}
