package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func setupRouter(t *testing.T) (chi.Router, *Gate) {
	t.Helper()
	g := NewGate("admin", "admin123", time.Hour, NewMemoryStore())
	r := chi.NewRouter()
	RegisterRoutes(r, g, nil)
	r.With(RequireAdmin(g)).Get("/api/admin/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ActorFromContext(r.Context())))
	})
	return r, g
}

func login(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHTTPLoginSetsCookie(t *testing.T) {
	r, _ := setupRouter(t)

	rec := login(t, r, `{"username":"admin","password":"admin123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ping status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "admin" {
		t.Errorf("actor = %q, want %q", rec.Body.String(), "admin")
	}
}

func TestHTTPLoginInvalid(t *testing.T) {
	r, _ := setupRouter(t)

	rec := login(t, r, `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid credentials" {
		t.Errorf("error = %q, want %q", body["error"], "invalid credentials")
	}
}

func TestHTTPRequireAdminRejects(t *testing.T) {
	r, _ := setupRouter(t)

	for _, header := range []string{"", "Bearer bogus", "Basic YWRtaW46YWRtaW4xMjM="} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q: status = %d, want %d", header, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestHTTPBearerAndLogout(t *testing.T) {
	r, _ := setupRouter(t)

	rec := login(t, r, `{"username":"admin","password":"admin123"}`)
	var s Session
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("session after logout status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
