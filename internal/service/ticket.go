package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/model"
	"github.com/gilbertouk/gamer-support/internal/repository"
)

type CreateTicketInput struct {
	UserID      string
	Title       string
	Game        string
	Description string
	Urgency     string
	Status      string
}

type Tickets struct {
	tickets repository.Tickets
}

func NewTickets(tickets repository.Tickets) *Tickets {
	return &Tickets{tickets: tickets}
}

func (s *Tickets) Create(ctx context.Context, input CreateTicketInput) (model.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Game = strings.TrimSpace(input.Game)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Game == "" || input.Description == "" {
		return model.Ticket{}, apperr.Validation("Title, game and description are required")
	}
	if !model.ValidUrgency(input.Urgency) {
		return model.Ticket{}, apperr.Validation("Invalid urgency")
	}
	if input.Status == "" {
		input.Status = model.StatusAberto
	}
	if !model.ValidStatus(input.Status) {
		return model.Ticket{}, apperr.Validation("Invalid status")
	}

	now := time.Now().UTC()
	ticket := model.Ticket{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       input.Title,
		Game:        input.Game,
		Description: input.Description,
		Urgency:     input.Urgency,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.tickets.Create(ctx, ticket)
}

// GetByID returns the ticket with its comments attached.
func (s *Tickets) GetByID(ctx context.Context, ticketID string) (model.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return model.Ticket{}, err
	}
	comments, err := s.tickets.Comments(ctx, ticketID)
	if err != nil {
		return model.Ticket{}, err
	}
	ticket.Comments = comments
	return ticket, nil
}

// ListFor returns every ticket for admins and only the caller's own
// tickets otherwise.
func (s *Tickets) ListFor(ctx context.Context, userID, role string) ([]model.Ticket, error) {
	if role == model.RoleAdmin {
		return s.tickets.List(ctx)
	}
	return s.tickets.ListByUser(ctx, userID)
}

func (s *Tickets) AddComment(ctx context.Context, ticketID, userID, message string) (model.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.Comment{}, apperr.Validation("Message is required")
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return model.Comment{}, err
	}
	return s.tickets.AddComment(ctx, ticketID, userID, message)
}

func (s *Tickets) UpdateStatus(ctx context.Context, ticketID, status string) (model.Ticket, error) {
	if !model.ValidStatus(status) {
		return model.Ticket{}, apperr.Validation("Invalid status")
	}
	return s.tickets.UpdateStatus(ctx, ticketID, status)
}

// Delete removes a ticket. Only the owner or an admin may delete it.
func (s *Tickets) Delete(ctx context.Context, ticketID, userID, role string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.UserID != userID && role != model.RoleAdmin {
		return apperr.Forbidden("User does not have permission")
	}
	return s.tickets.Delete(ctx, ticketID)
}
