package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testNotification() Notification {
	return Notification{
		Type:    TypeInquiryReceived,
		Title:   "New inquiry from Ada",
		Message: "Georgian silver teapot",
		Fields:  map[string]string{"email": "ada@example.com"},
	}
}

func TestDispatchPostsJSON(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL)
	if err := d.Dispatch(context.Background(), testNotification()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Type != TypeInquiryReceived || got.Fields["email"] != "ada@example.com" {
		t.Errorf("received %+v", got)
	}
}

func TestDispatchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL)
	if err := d.Dispatch(context.Background(), testNotification()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestNotifyDeliversOnceWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, testNotification())
	cancel()
	d.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("webhook called %d times, want 1", n)
	}
}

func TestNotifyDisabled(t *testing.T) {
	d := NewDispatcher("")
	if d.Enabled() {
		t.Fatal("dispatcher with empty URL should be disabled")
	}
	d.Notify(context.Background(), testNotification())
	d.Wait()

	var nilDispatcher *Dispatcher
	nilDispatcher.Notify(context.Background(), testNotification())
	nilDispatcher.Wait()
}
