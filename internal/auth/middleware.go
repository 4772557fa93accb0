package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// CookieName is the cookie that carries the admin session token.
const CookieName = "lunar_admin"

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session stored by RequireAdmin.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// ActorFromContext names the admin acting in ctx, or "anonymous".
func ActorFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok && s.Username != "" {
		return s.Username
	}
	return "anonymous"
}

// TokenFromRequest reads the session token from the Authorization bearer
// header or, failing that, the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireAdmin rejects requests without a live admin session with 401 and
// puts the session in the request context otherwise.
func RequireAdmin(g *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := g.Authenticate(r.Context(), TokenFromRequest(r))
			if err != nil {
				if !errors.Is(err, ErrUnauthenticated) {
					slog.ErrorContext(r.Context(), "session lookup failed", "err", err)
					writeError(w, http.StatusInternalServerError, "session lookup failed")
					return
				}
				writeError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
