// Package session holds the ephemeral identity of the logged-in customer:
// an opaque bearer token plus the profile returned at login. The record lives
// in an HMAC-signed, session-scoped cookie, so it is cleared on logout and
// does not survive a browser restart.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/it23631960/pearl-logistics-user/internal/domain"
)

const cookieName = "PEARL_SESSION"

// ErrNoIdentity indicates no valid session identity is present. Callers must
// redirect to the login flow rather than attempt the guarded operation.
var ErrNoIdentity = errors.New("session: no identity")

type ctxKey struct{}

// Manager encodes, verifies and serves the identity cookie. The signing key
// is injected at construction; lifecycle is explicit: Issue at login, Clear
// at logout.
type Manager struct {
	signKey []byte
	secure  bool
}

// NewManager builds a Manager. When key is empty a process-ephemeral key is
// generated, which invalidates sessions across restarts.
func NewManager(key string, secure bool) *Manager {
	signKey := []byte(key)
	if len(signKey) == 0 {
		signKey = make([]byte, 32)
		if _, err := rand.Read(signKey); err != nil {
			signKey = []byte("insecure-dev-key-set-SESSION_SIGNING_KEY")
		}
	}
	return &Manager{signKey: signKey, secure: secure}
}

// Middleware decodes the identity cookie and attaches the identity to the
// request context. Absent or malformed cookies yield an absent identity,
// never an error.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.read(r)
		if ok {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Issue writes the signed identity cookie. Called once at login.
func (m *Manager) Issue(w http.ResponseWriter, identity domain.Identity) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, m.signKey)
	mac.Write(payload)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded + "." + sig,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		// No Expires, session-scoped cookie.
	})
}

// Clear drops the identity cookie. Called at logout.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (m *Manager) read(r *http.Request) (domain.Identity, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return domain.Identity{}, false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return domain.Identity{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return domain.Identity{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return domain.Identity{}, false
	}
	mac := hmac.New(sha256.New, m.signKey)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return domain.Identity{}, false
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return domain.Identity{}, false
	}
	if !identity.Valid() {
		return domain.Identity{}, false
	}
	return identity, true
}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the current identity. The second return is false when
// no valid identity is attached; this is a pure read and never fails harder.
func FromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(domain.Identity)
	if !ok || !identity.Valid() {
		return domain.Identity{}, false
	}
	return identity, true
}

// CurrentUserID returns the logged-in user id, or 0 when absent.
func CurrentUserID(ctx context.Context) int64 {
	identity, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return identity.User.ID
}

// CurrentToken returns the bearer token, or empty when absent.
func CurrentToken(ctx context.Context) string {
	identity, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return identity.Token
}
