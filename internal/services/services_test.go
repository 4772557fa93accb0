package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lunar-antiques/lunar/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAssignsDisplayOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, Input{Title: "Valuations", Features: Features{"Insurance valuations"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := store.Create(ctx, Input{Title: "Commission Searches"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.DisplayOrder != 0 {
		t.Errorf("first DisplayOrder = %d, want 0", first.DisplayOrder)
	}
	if second.DisplayOrder != 1 {
		t.Errorf("second DisplayOrder = %d, want 1", second.DisplayOrder)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Create(context.Background(), Input{Title: "  "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("Create error = %v, want ErrInvalid", err)
	}
}

func TestListOrderedWithFeatures(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	n, err := Seed(ctx, store)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(DefaultServices()) {
		t.Fatalf("Seed added %d, want %d", n, len(DefaultServices()))
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 6 {
		t.Fatalf("List returned %d services, want 6", len(list))
	}
	if list[0].Title != "Authentication & Expertise" {
		t.Errorf("first service = %q", list[0].Title)
	}
	if len(list[1].Features) != 7 || list[1].Features[0] != "FREE UK shipping on orders over £500" {
		t.Errorf("shipping features = %v", list[1].Features)
	}
	for i, svc := range list {
		if svc.DisplayOrder != i {
			t.Errorf("service %d DisplayOrder = %d", i, svc.DisplayOrder)
		}
	}

	// Seeding again is a no-op.
	if n, err := Seed(ctx, store); err != nil || n != 0 {
		t.Errorf("second Seed = %d, %v", n, err)
	}
}

func TestUpdateReplacesFeatures(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	svc, err := store.Create(ctx, Input{Title: "Valuations", Features: Features{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, svc.ID, Input{Title: "Valuations", Pricing: "From £100", Features: Features{"probate"}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Pricing != "From £100" {
		t.Errorf("Pricing = %q", updated.Pricing)
	}
	if len(updated.Features) != 1 || updated.Features[0] != "probate" {
		t.Errorf("Features = %v, want [probate]", updated.Features)
	}
	if updated.DisplayOrder != svc.DisplayOrder {
		t.Errorf("DisplayOrder changed to %d", updated.DisplayOrder)
	}
}

func TestUpdateDeleteNotFound(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.Update(ctx, "missing", Input{Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesFeatures(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	svc, err := store.Create(ctx, Input{Title: "Valuations", Features: Features{"a", "b"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, svc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM cms_service_features`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("%d features left after delete", count)
	}
}

func TestFeaturesUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`["a", " b ", ""]`, []string{"a", "b"}},
		{`"one\n\n two \nthree"`, []string{"one", "two", "three"}},
		{`""`, []string{}},
	}
	for _, tt := range tests {
		var f Features
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if strings.Join(f, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, f, tt.want)
		}
	}
}

func TestHTTPCreateWithFeatureText(t *testing.T) {
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	RegisterAdminRoutes(r, store, nil)

	body := `{"title":"Restoration Recommendations","pricing":"Consultation included","features":"Conservator referrals\nProject management"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/services", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	var list []Service
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || len(list[0].Features) != 2 {
		t.Fatalf("list = %+v", list)
	}
}

func TestHTTPEmptyListIsArray(t *testing.T) {
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}
