package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestViewerSessionGauge(t *testing.T) {
	viewerSessionsActive.Set(0)

	ViewerSessionOpened()
	ViewerSessionOpened()
	ViewerSessionClosed()

	if got := testutil.ToFloat64(viewerSessionsActive); got != 1 {
		t.Errorf("viewer_sessions_active = %f, want 1", got)
	}
}

func TestCollectionWrite(t *testing.T) {
	collectionWritesTotal.Reset()

	CollectionWrite("add", nil)
	CollectionWrite("add", nil)
	CollectionWrite("delete", errors.New("boom"))

	if got := testutil.ToFloat64(collectionWritesTotal.WithLabelValues("add", "success")); got != 2 {
		t.Errorf("add/success = %f, want 2", got)
	}
	if got := testutil.ToFloat64(collectionWritesTotal.WithLabelValues("delete", "error")); got != 1 {
		t.Errorf("delete/error = %f, want 1", got)
	}
}

func TestAdminLogin(t *testing.T) {
	adminLoginsTotal.Reset()

	AdminLogin(true)
	AdminLogin(false)
	AdminLogin(false)

	if got := testutil.ToFloat64(adminLoginsTotal.WithLabelValues("failure")); got != 2 {
		t.Errorf("failure = %f, want 2", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/collection/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collection/abc", nil))

	if n := testutil.CollectAndCount(httpRequestDuration); n != 1 {
		t.Fatalf("expected 1 series, got %d", n)
	}
	reg := NewRegistry()
	rec = httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `route="/api/collection/{id}"`) {
		t.Errorf("expected route pattern label in exposition")
	}
}
