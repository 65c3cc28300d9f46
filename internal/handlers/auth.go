package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
	"github.com/it23631960/pearl-logistics-user/internal/httpx"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

// Authenticator exchanges credentials for a backend identity.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error)
}

// AuthHandlers exposes the login, signup and logout endpoints that bound a
// shopping session.
type AuthHandlers struct {
	auth     Authenticator
	sessions *session.Manager
}

// NewAuthHandlers constructs handlers backed by the given authenticator and
// session manager.
func NewAuthHandlers(auth Authenticator, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{auth: auth, sessions: sessions}
}

// Routes wires the /auth endpoints onto the provided router.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/login", h.login)
	r.Post("/signup", h.signup)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type identityResponse struct {
	User domain.User `json:"user"`
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "email and password are required", http.StatusBadRequest))
		return
	}

	identity, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	h.sessions.Issue(w, identity)
	httpx.WriteJSON(w, http.StatusOK, identityResponse{User: identity.User})
}

func (h *AuthHandlers) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req signupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "first name, email and password are required", http.StatusBadRequest))
		return
	}

	identity, err := h.auth.Register(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	h.sessions.Issue(w, identity)
	httpx.WriteJSON(w, http.StatusCreated, identityResponse{User: identity.User})
}

func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (h *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := session.FromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "sign in to continue", http.StatusUnauthorized))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identityResponse{User: identity.User})
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "could not read request body", http.StatusBadRequest))
}
