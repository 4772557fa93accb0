package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestGate(t *testing.T) (*Gate, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewGate("admin", "admin123", time.Hour, store), store
}

func TestLoginSuccess(t *testing.T) {
	g, store := newTestGate(t)
	ctx := context.Background()

	s, err := g.Login(ctx, Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token == "" {
		t.Error("expected a session token")
	}
	if s.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", s.Role, RoleAdmin)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d sessions, want 1", store.Len())
	}
	if !g.IsAuthenticated(ctx, s.Token) {
		t.Error("expected token to authenticate")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	g, store := newTestGate(t)

	tests := []Credentials{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "admin123"},
		{},
	}
	for _, c := range tests {
		if _, err := g.Login(context.Background(), c); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%+v) error = %v, want ErrInvalidCredentials", c, err)
		}
	}
	if store.Len() != 0 {
		t.Errorf("failed logins created %d sessions", store.Len())
	}
}

func TestLogout(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	s, err := g.Login(ctx, Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := g.Logout(ctx, s.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if g.IsAuthenticated(ctx, s.Token) {
		t.Error("token still valid after logout")
	}

	// Logging out twice, or with no token, is not an error.
	if err := g.Logout(ctx, s.Token); err != nil {
		t.Errorf("second Logout: %v", err)
	}
	if err := g.Logout(ctx, ""); err != nil {
		t.Errorf("empty Logout: %v", err)
	}
}

func TestAuthenticateExpired(t *testing.T) {
	g, store := newTestGate(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return start }
	store.now = g.now

	s, err := g.Login(ctx, Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	g.now = func() time.Time { return start.Add(2 * time.Hour) }
	store.now = g.now

	if _, err := g.Authenticate(ctx, s.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Authenticate after expiry error = %v, want ErrUnauthenticated", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session not evicted, %d left", store.Len())
	}
}

func TestAuthenticateUnknownToken(t *testing.T) {
	g, _ := newTestGate(t)

	for _, token := range []string{"", "nope"} {
		if _, err := g.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("Authenticate(%q) error = %v, want ErrUnauthenticated", token, err)
		}
	}
}
