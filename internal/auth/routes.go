package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/metrics"
)

// RegisterRoutes mounts login, logout and session introspection.
func RegisterRoutes(r chi.Router, g *Gate, auditStore *audit.Store) {
	r.Post("/api/admin/login", loginHandler(g, auditStore))
	r.Post("/api/admin/logout", logoutHandler(g, auditStore))
	r.With(RequireAdmin(g)).Get("/api/admin/session", sessionHandler())
}

func loginHandler(g *Gate, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s, err := g.Login(r.Context(), creds)
		metrics.AdminLogin(err == nil)
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    s.Token,
			Path:     "/",
			Expires:  s.ExpiresAt,
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		auditStore.Record(r.Context(), audit.Entry{
			Actor:   s.Username,
			Action:  audit.ActionLogin,
			Scope:   audit.ScopeSession,
			Summary: "Admin signed in",
		})
		writeJSON(w, http.StatusOK, s)
	}
}

func logoutHandler(g *Gate, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		actor := "anonymous"
		if s, err := g.Authenticate(r.Context(), token); err == nil {
			actor = s.Username
		}

		if err := g.Logout(r.Context(), token); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if actor != "anonymous" {
			auditStore.Record(r.Context(), audit.Entry{
				Actor:   actor,
				Action:  audit.ActionLogout,
				Scope:   audit.ScopeSession,
				Summary: "Admin signed out",
			})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"username":      s.Username,
			"role":          s.Role,
			"expires_at":    s.ExpiresAt,
		})
	}
}
