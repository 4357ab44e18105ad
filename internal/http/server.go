package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gilbertouk/gamer-support/internal/auth"
	"github.com/gilbertouk/gamer-support/internal/config"
	"github.com/gilbertouk/gamer-support/internal/model"
	"github.com/gilbertouk/gamer-support/internal/repository"
	"github.com/gilbertouk/gamer-support/internal/service"
	"github.com/gilbertouk/gamer-support/internal/session"
)

const (
	refreshCookieName = "refreshToken"
	apiVersion        = "1.0.0"
)

type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	users    repository.Users
	auth     *service.Auth
	tickets  *service.Tickets
	sessions session.Store
	started  time.Time
}

func NewServer(cfg config.Config, logger *slog.Logger, users repository.Users, tickets repository.Tickets, sessions session.Store) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		auth:     service.NewAuth(users),
		tickets:  service.NewTickets(tickets),
		sessions: sessions,
		started:  time.Now().UTC(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", s.handleSignUp)
			r.Post("/sign-in", s.handleSignIn)
			r.Get("/refresh-token", s.handleRefreshToken)
			r.With(s.authMiddleware).Get("/me", s.handleMe)
			r.With(s.authMiddleware).Get("/logout", s.handleLogout)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.With(s.authMiddleware).Post("/", s.handleCreateTicket)
			r.With(s.authMiddleware).Get("/", s.handleListTickets)
			r.With(s.authMiddleware).Get("/{ticketId}", s.handleGetTicket)
			r.With(s.authMiddleware).Put("/{ticketId}/comments", s.handleAddComment)
			r.With(s.authMiddleware, s.requireRole(model.RoleAdmin)).Patch("/{ticketId}/status", s.handleUpdateStatus)
			r.With(s.authMiddleware).Delete("/{ticketId}", s.handleDeleteTicket)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(s.started).Round(time.Second).String(),
		"environment": s.cfg.Env,
		"version":     apiVersion,
	})
}

// Identity is the authenticated caller attached to the request context
// by authMiddleware.
type Identity struct {
	ID    string
	Email string
	Role  string
}

type identityKey struct{}

func identityFromContext(ctx context.Context) *Identity {
	value := ctx.Value(identityKey{})
	identity, _ := value.(*Identity)
	return identity
}

// authMiddleware walks the request from bearer header to verified claims
// to a live user row; any failure along the way is a 401. The identity
// is rebuilt from the user row, not the claims, so a role change takes
// effect on the next request.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := auth.ParseToken(s.cfg.TokenSecret, s.cfg.TokenIssuer, token)
		if err != nil || claims.UserID == "" || claims.Email == "" || claims.Role == "" {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}

		identity := &Identity{ID: user.ID, Email: user.Email, Role: user.Role}
		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}
			for _, role := range allowedRoles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "User does not have permission")
		})
	}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authMeta struct {
	AccessToken string `json:"accessToken"`
}

func mapUser(user model.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	accessToken, err := s.issueTokens(r.Context(), w, user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Message: "User signed up successfully",
		Data:    mapUser(user),
		Meta:    authMeta{AccessToken: accessToken},
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	accessToken, err := s.issueTokens(r.Context(), w, user)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "User signed in successfully",
		Data:    mapUser(user),
		Meta:    authMeta{AccessToken: accessToken},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := s.auth.Me(r.Context(), identity.ID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "User retrieved successfully",
		Data:    mapUser(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := s.sessions.DeleteByUser(r.Context(), identity.ID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshToken exchanges the refresh cookie for a fresh access
// token. The refresh token must be signature-valid AND still present in
// the session store; it is left in place, only the access token is
// reissued.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	claims, err := auth.ParseRefreshToken(s.cfg.RefreshSecret, s.cfg.TokenIssuer, cookie.Value)
	if err != nil || claims.UserID == "" {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	userID, err := s.sessions.Find(r.Context(), cookie.Value)
	if errors.Is(err, session.ErrNotFound) || (err == nil && userID != claims.UserID) {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	accessToken, err := auth.NewAccessToken(s.cfg.TokenSecret, s.cfg.TokenIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Message: "Token refreshed successfully",
		Meta:    authMeta{AccessToken: accessToken},
	})
}

// issueTokens creates both token kinds for user, persists the refresh
// token as a session and delivers it via the http-only cookie. Only the
// access token is returned for the response body.
func (s *Server) issueTokens(ctx context.Context, w http.ResponseWriter, user model.User) (string, error) {
	claims := auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}

	accessToken, err := auth.NewAccessToken(s.cfg.TokenSecret, s.cfg.TokenIssuer, s.cfg.AccessTokenTTL, claims)
	if err != nil {
		return "", err
	}
	refreshToken, err := auth.NewRefreshToken(s.cfg.RefreshSecret, s.cfg.TokenIssuer, s.cfg.RefreshTokenTTL, claims)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Save(ctx, user.ID, refreshToken); err != nil {
		return "", err
	}

	s.setRefreshCookie(w, refreshToken)
	return accessToken, nil
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
