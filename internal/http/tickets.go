package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gilbertouk/gamer-support/internal/model"
	"github.com/gilbertouk/gamer-support/internal/service"
)

type createTicketRequest struct {
	Title       string `json:"title"`
	Game        string `json:"game"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Status      string `json:"status"`
}

type addCommentRequest struct {
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type ticketPayload struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Title       string            `json:"title"`
	Game        string            `json:"game"`
	Description string            `json:"description"`
	Urgency     string            `json:"urgency"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Comments    *[]commentPayload `json:"comments,omitempty"`
}

type commentPayload struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func mapComment(comment model.Comment) commentPayload {
	return commentPayload{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		Message:   comment.Message,
		Author:    comment.Author,
		IsAdmin:   comment.IsAdmin,
		CreatedAt: comment.CreatedAt,
	}
}

func mapTicket(ticket model.Ticket, withComments bool) ticketPayload {
	payload := ticketPayload{
		ID:          ticket.ID,
		UserID:      ticket.UserID,
		Title:       ticket.Title,
		Game:        ticket.Game,
		Description: ticket.Description,
		Urgency:     ticket.Urgency,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if withComments {
		comments := make([]commentPayload, 0, len(ticket.Comments))
		for _, comment := range ticket.Comments {
			comments = append(comments, mapComment(comment))
		}
		payload.Comments = &comments
	}
	return payload
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req createTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := s.tickets.Create(r.Context(), service.CreateTicketInput{
		UserID:      identity.ID,
		Title:       req.Title,
		Game:        req.Game,
		Description: req.Description,
		Urgency:     req.Urgency,
		Status:      req.Status,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Message: "Ticket created successfully",
		Data:    mapTicket(ticket, false),
	})
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tickets, err := s.tickets.ListFor(r.Context(), identity.ID, identity.Role)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	payload := make([]ticketPayload, 0, len(tickets))
	for _, ticket := range tickets {
		payload = append(payload, mapTicket(ticket, false))
	}

	writeJSON(w, http.StatusOK, response{
		Message: "Tickets retrieved successfully",
		Data:    payload,
	})
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	ticket, err := s.tickets.GetByID(r.Context(), chi.URLParam(r, "ticketId"))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if ticket.UserID != identity.ID && identity.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "User does not have permission")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "Ticket retrieved successfully",
		Data:    mapTicket(ticket, true),
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := s.tickets.AddComment(r.Context(), chi.URLParam(r, "ticketId"), identity.ID, req.Message)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Message: "Comment added successfully",
		Data:    mapComment(comment),
	})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := s.tickets.UpdateStatus(r.Context(), chi.URLParam(r, "ticketId"), req.Status)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "Ticket status updated successfully",
		Data:    mapTicket(ticket, false),
	})
}

func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := s.tickets.Delete(r.Context(), chi.URLParam(r, "ticketId"), identity.ID, identity.Role); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
