package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Urgency values are part of the public wire format and must not be
// translated.
const (
	UrgencySuave          = "SUAVE"
	UrgencyModerado       = "MODERADO"
	UrgencyAgora          = "AGORA"
	UrgencyApagaOServidor = "APAGA_O_SERVIDOR"
)

const (
	StatusAberto    = "ABERTO"
	StatusResolvido = "RESOLVIDO"
	StatusIgnorado  = "IGNORADO"
)

func ValidUrgency(urgency string) bool {
	switch urgency {
	case UrgencySuave, UrgencyModerado, UrgencyAgora, UrgencyApagaOServidor:
		return true
	default:
		return false
	}
}

func ValidStatus(status string) bool {
	switch status {
	case StatusAberto, StatusResolvido, StatusIgnorado:
		return true
	default:
		return false
	}
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Ticket struct {
	ID          string
	UserID      string
	Title       string
	Game        string
	Description string
	Urgency     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment
}

// Comment carries the author's username resolved at read time so that
// comments survive account deletion.
type Comment struct {
	ID        string
	TicketID  string
	Message   string
	Author    string
	IsAdmin   bool
	CreatedAt time.Time
}
