package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gilbertouk/gamer-support/internal/apperr"
	"github.com/gilbertouk/gamer-support/internal/model"
)

// MemoryUsers mirrors PGUsers semantics, including the uniqueness
// conflicts the database constraints would raise.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]model.User)}
}

func (r *MemoryUsers) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return model.User{}, apperr.Conflict("Email already in use")
		}
		if existing.Username == user.Username {
			return model.User{}, apperr.Conflict("Username already in use")
		}
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *MemoryUsers) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return model.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *MemoryUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *MemoryUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r *MemoryUsers) find(match func(model.User) bool) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if match(user) {
			return user, nil
		}
	}
	return model.User{}, apperr.NotFound("user not found")
}

// Delete exists so tests can exercise the deleted-author fallback on
// comments.
func (r *MemoryUsers) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type MemoryTickets struct {
	mu       sync.RWMutex
	users    *MemoryUsers
	tickets  map[string]model.Ticket
	comments map[string][]model.Comment
}

func NewMemoryTickets(users *MemoryUsers) *MemoryTickets {
	return &MemoryTickets{
		users:    users,
		tickets:  make(map[string]model.Ticket),
		comments: make(map[string][]model.Comment),
	}
}

func (r *MemoryTickets) Create(_ context.Context, ticket model.Ticket) (model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (r *MemoryTickets) GetByID(_ context.Context, id string) (model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return model.Ticket{}, apperr.NotFound("Ticket not found")
	}
	return ticket, nil
}

func (r *MemoryTickets) List(_ context.Context) ([]model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := make([]model.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		tickets = append(tickets, ticket)
	}
	sortTickets(tickets)
	return tickets, nil
}

func (r *MemoryTickets) ListByUser(_ context.Context, userID string) ([]model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := make([]model.Ticket, 0)
	for _, ticket := range r.tickets {
		if ticket.UserID == userID {
			tickets = append(tickets, ticket)
		}
	}
	sortTickets(tickets)
	return tickets, nil
}

func (r *MemoryTickets) Comments(_ context.Context, ticketID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	comments := make([]model.Comment, len(r.comments[ticketID]))
	copy(comments, r.comments[ticketID])
	return comments, nil
}

func (r *MemoryTickets) AddComment(ctx context.Context, ticketID, userID, message string) (model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return model.Comment{}, apperr.NotFound("Ticket not found")
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Message:   message,
		Author:    deletedAuthor,
		CreatedAt: time.Now().UTC(),
	}
	if user, err := r.users.GetByID(ctx, userID); err == nil {
		comment.Author = user.Username
		comment.IsAdmin = user.Role == model.RoleAdmin
	}
	r.comments[ticketID] = append(r.comments[ticketID], comment)
	return comment, nil
}

func (r *MemoryTickets) UpdateStatus(_ context.Context, ticketID, status string) (model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return model.Ticket{}, apperr.NotFound("Ticket not found")
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now().UTC()
	r.tickets[ticketID] = ticket
	return ticket, nil
}

func (r *MemoryTickets) Delete(_ context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return apperr.NotFound("Ticket not found")
	}
	delete(r.tickets, ticketID)
	delete(r.comments, ticketID)
	return nil
}

func sortTickets(tickets []model.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}
