package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/db"
	"github.com/lunar-antiques/lunar/internal/notifications"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note notifications.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
}

func setupRouter(t *testing.T, limiter *rate.Limiter, notifier Notifier) (chi.Router, *Store, *audit.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	auditStore := audit.NewStore(database)
	r := chi.NewRouter()
	RegisterRoutes(r, store, limiter, notifier)
	RegisterAdminRoutes(r, store, auditStore)
	return r, store, auditStore
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const contactBody = `{"name":"Ada","email":"ada@example.com","phone":"01234 567890","subject":"Valuation","message":"Please value my clock.","inquiry_type":"valuation"}`

func TestSubmitRouteNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	r, store, _ := setupRouter(t, nil, notifier)

	rec := do(r, http.MethodPost, "/api/contact", contactBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	contacts, _ := store.ListContacts(context.Background(), 0)
	if len(contacts) != 1 || contacts[0].Phone != "01234 567890" {
		t.Fatalf("contacts = %+v", contacts)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.Type != notifications.TypeInquiryReceived || n.Fields["inquiry_type"] != "valuation" || n.Fields["contact_id"] != contacts[0].ID {
		t.Errorf("notification = %+v", n)
	}
}

func TestSubmitRouteInvalid(t *testing.T) {
	notifier := &recordingNotifier{}
	r, _, _ := setupRouter(t, nil, notifier)

	rec := do(r, http.MethodPost, "/api/contact", `{"name":"Ada","email":"nope","subject":"x","message":"y"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = do(r, http.MethodPost, "/api/contact", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("rejected submissions sent %d notifications", len(notifier.sent))
	}
}

func TestSubmitRouteRateLimited(t *testing.T) {
	r, _, _ := setupRouter(t, NewLimiter(2), nil)

	for i := 0; i < 2; i++ {
		if rec := do(r, http.MethodPost, "/api/contact", contactBody); rec.Code != http.StatusCreated {
			t.Fatalf("submission %d status = %d", i, rec.Code)
		}
	}
	rec := do(r, http.MethodPost, "/api/contact", contactBody)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third submission status = %d, want 429", rec.Code)
	}
}

func TestNewLimiterUnlimited(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("unlimited limiter refused request %d", i)
		}
	}
}

func TestAdminDealsAndStats(t *testing.T) {
	r, _, auditStore := setupRouter(t, nil, nil)

	rec := do(r, http.MethodPost, "/api/admin/crm/deals", `{"title":"Chest of drawers","value":"£2,850"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var d Deal
	json.NewDecoder(rec.Body).Decode(&d)

	rec = do(r, http.MethodPut, "/api/admin/crm/deals/"+d.ID, `{"title":"Chest of drawers","value":"£2,850","status":"closed_won"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/api/admin/crm/stats", "")
	var st Stats
	json.NewDecoder(rec.Body).Decode(&st)
	if st.OpenDeals != 0 || st.PipelineValue != 0 {
		t.Errorf("stats after closing = %+v", st)
	}

	rec = do(r, http.MethodDelete, "/api/admin/crm/deals/"+d.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = do(r, http.MethodPut, "/api/admin/crm/deals/"+d.ID, `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update deleted deal status = %d", rec.Code)
	}

	entries, _ := auditStore.Query(context.Background(), audit.QueryFilter{Scope: audit.ScopeDeal})
	if len(entries) != 3 {
		t.Errorf("audit entries = %d, want 3", len(entries))
	}
}

func TestAdminContactStatus(t *testing.T) {
	r, store, auditStore := setupRouter(t, nil, nil)
	c, err := store.SubmitContact(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}

	rec := do(r, http.MethodPut, "/api/admin/crm/contacts/"+c.ID+"/status", `{"status":"active"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(r, http.MethodPut, "/api/admin/crm/contacts/"+c.ID+"/status", `{"status":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus status code = %d", rec.Code)
	}
	rec = do(r, http.MethodPut, "/api/admin/crm/contacts/missing/status", `{"status":"active"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing contact code = %d", rec.Code)
	}

	rec = do(r, http.MethodGet, "/api/admin/crm/contacts?limit=5", "")
	var contacts []Contact
	json.NewDecoder(rec.Body).Decode(&contacts)
	if len(contacts) != 1 || contacts[0].Status != ContactActive {
		t.Errorf("contacts = %+v", contacts)
	}
	if rec := do(r, http.MethodGet, "/api/admin/crm/contacts?limit=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit code = %d", rec.Code)
	}

	entries, _ := auditStore.Query(context.Background(), audit.QueryFilter{Action: audit.ActionContactStatus})
	if len(entries) != 1 || entries[0].NewValue != "active" {
		t.Errorf("audit entries = %+v", entries)
	}
}
