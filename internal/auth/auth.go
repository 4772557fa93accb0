// Package auth is the admin gate: a single configured credential pair,
// session tokens kept in a pluggable SessionStore, and HTTP middleware that
// guards the admin API.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a token does not name a live session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionNotFound is returned by a SessionStore for an unknown or expired token.
	ErrSessionNotFound = errors.New("session not found")
)

// RoleAdmin is the only role the gate hands out.
const RoleAdmin = "admin"

// Credentials is a login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is an authenticated admin session.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Gate checks admin credentials and issues sessions.
type Gate struct {
	username string
	password string
	ttl      time.Duration
	sessions SessionStore
	now      func() time.Time
}

// NewGate creates a gate for the given credential pair. Sessions live for
// ttl and are kept in sessions.
func NewGate(username, password string, ttl time.Duration, sessions SessionStore) *Gate {
	return &Gate{
		username: username,
		password: password,
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login verifies creds and starts a session.
func (g *Gate) Login(ctx context.Context, creds Credentials) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return Session{}, ErrInvalidCredentials
	}

	now := g.now().UTC()
	s := Session{
		Token:     uuid.New().String(),
		Username:  g.username,
		Role:      RoleAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(g.ttl),
	}
	if err := g.sessions.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}
	return s, nil
}

// Logout ends the session for token. Unknown tokens are ignored.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := g.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Authenticate returns the live session for token.
func (g *Gate) Authenticate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrUnauthenticated
	}
	s, err := g.sessions.Get(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return Session{}, ErrUnauthenticated
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}
	if s.Expired(g.now()) {
		_ = g.sessions.Delete(ctx, token)
		return Session{}, ErrUnauthenticated
	}
	return s, nil
}

// IsAuthenticated reports whether token names a live session.
func (g *Gate) IsAuthenticated(ctx context.Context, token string) bool {
	_, err := g.Authenticate(ctx, token)
	return err == nil
}
