package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lunar-antiques/lunar/internal/collection"
)

type fakeItems map[string]collection.Item

func (f fakeItems) Get(_ context.Context, id string) (collection.Item, error) {
	it, ok := f[id]
	if !ok {
		return collection.Item{}, collection.ErrNotFound
	}
	return it, nil
}

func setupRouter(t *testing.T) (chi.Router, *Registry) {
	t.Helper()
	reg := NewRegistry(Options{Scheduler: &manualScheduler{}})
	t.Cleanup(reg.CloseAll)

	items := fakeItems{
		"box":  {ID: "box", Title: "Victorian Decorative Box", Images: []string{"/a.jpg", "/b.jpg", "/c.jpg"}},
		"bare": {ID: "bare", Title: "Unphotographed"},
	}
	r := chi.NewRouter()
	RegisterRoutes(r, reg, items)
	RegisterWebSocket(r, reg, items)
	return r, reg
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHTTPSessionLifecycle(t *testing.T) {
	r, reg := setupRouter(t)

	rec := do(t, r, http.MethodPost, "/api/viewer/sessions", `{"item_id":"box"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var opened sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&opened); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if opened.State.Total != 3 || opened.State.Title != "Victorian Decorative Box" {
		t.Errorf("state = %+v", opened.State)
	}

	rec = do(t, r, http.MethodPost, "/api/viewer/sessions/"+opened.SessionID+"/commands", `{"command":"step_backward"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("command status = %d, want %d", rec.Code, http.StatusOK)
	}
	var stepped sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&stepped); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stepped.State.CurrentIndex != 2 {
		t.Errorf("index = %d, want 2", stepped.State.CurrentIndex)
	}

	rec = do(t, r, http.MethodGet, "/api/viewer/sessions/"+opened.SessionID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = do(t, r, http.MethodDelete, "/api/viewer/sessions/"+opened.SessionID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if reg.Count() != 0 {
		t.Errorf("Count = %d, want 0", reg.Count())
	}

	rec = do(t, r, http.MethodGet, "/api/viewer/sessions/"+opened.SessionID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPOpenErrors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		body string
		want int
	}{
		{`{}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"item_id":"missing"}`, http.StatusNotFound},
		{`{"item_id":"bare"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		rec := do(t, r, http.MethodPost, "/api/viewer/sessions", tt.body)
		if rec.Code != tt.want {
			t.Errorf("body %s: status = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}
}

func TestHTTPUnknownCommand(t *testing.T) {
	r, reg := setupRouter(t)

	s, err := reg.Open([]string{"/a.jpg"}, "t", "d", "box", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec := do(t, r, http.MethodPost, "/api/viewer/sessions/"+s.ID+"/commands", `{"command":"spin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return f
}

func TestWebSocketSession(t *testing.T) {
	r, reg := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/viewer?item_id=box"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	f := readFrame(t, conn)
	if f.Type != "state" || f.State == nil || f.State.CurrentIndex != 0 {
		t.Fatalf("initial frame = %+v", f)
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}

	if err := conn.WriteJSON(Command{Command: CmdStepForward}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	f = readFrame(t, conn)
	if f.Type != "state" || f.State.CurrentIndex != 1 {
		t.Errorf("after step_forward frame = %+v", f)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	f = readFrame(t, conn)
	if f.Type != "error" {
		t.Errorf("bad frame answered with %+v", f)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for reg.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not closed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketEmptySequence(t *testing.T) {
	r, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/viewer?item_id=bare"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	f := readFrame(t, conn)
	if f.Type != "error" || !strings.Contains(f.Message, "empty") {
		t.Errorf("frame = %+v, want empty-sequence error", f)
	}
}
