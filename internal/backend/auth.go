package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// ErrLoginFailed indicates the backend refused the credentials.
var ErrLoginFailed = fmt.Errorf("%w: login failed", ErrRejected)

// Login exchanges credentials for a bearer token and user profile.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	endpoint, err := c.endpoint("api", "auth", "login")
	if err != nil {
		return domain.Identity{}, err
	}
	var payload authPayload
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, endpoint, "", req, &payload); err != nil {
		return domain.Identity{}, err
	}
	if !payload.Success || payload.User == nil || payload.User.ID <= 0 {
		msg := strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = "invalid credentials"
		}
		return domain.Identity{}, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}
	return domain.Identity{Token: strings.TrimSpace(payload.Token), User: *payload.User}, nil
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates an account and returns the resulting identity when the
// backend auto-authenticates new users.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error) {
	endpoint, err := c.endpoint("api", "auth", "register")
	if err != nil {
		return domain.Identity{}, err
	}
	var payload authPayload
	req := registerRequest{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
		Password:  password,
	}
	if err := c.do(ctx, http.MethodPost, endpoint, "", req, &payload); err != nil {
		return domain.Identity{}, err
	}
	if !payload.Success {
		msg := strings.TrimSpace(payload.Message)
		if msg == "" {
			msg = "registration failed"
		}
		return domain.Identity{}, fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	identity := domain.Identity{Token: strings.TrimSpace(payload.Token)}
	if payload.User != nil {
		identity.User = *payload.User
	}
	return identity, nil
}
