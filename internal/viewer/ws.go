package viewer

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lunar-antiques/lunar/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// frame is the outgoing WebSocket message format.
type frame struct {
	Type      string `json:"type"` // "state" or "error"
	SessionID string `json:"session_id,omitempty"`
	State     *State `json:"state,omitempty"`
	Message   string `json:"message,omitempty"`
}

// wsConn serialises writes to one connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(f frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(f); err != nil {
		slog.Debug("viewer: websocket write", "err", err)
	}
}

// latest is a one-slot mailbox that keeps only the newest state.
type latest chan State

func (l latest) put(s State) {
	for {
		select {
		case l <- s:
			return
		default:
		}
		select {
		case <-l:
		default:
		}
	}
}

func wsHandler(reg *Registry, items ItemSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("viewer: websocket upgrade", "err", err)
			return
		}
		defer conn.Close()
		c := &wsConn{conn: conn}

		updates := make(latest, 1)
		s, _, err := openForItem(r.Context(), reg, items, r.URL.Query().Get("item_id"), updates.put)
		if err != nil {
			c.send(frame{Type: "error", Message: err.Error()})
			return
		}
		defer reg.Close(s.ID)

		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case st := <-updates:
					c.send(frame{Type: "state", SessionID: s.ID, State: &st})
				case <-done:
					return
				}
			}
		}()
		defer func() {
			close(done)
			wg.Wait()
		}()

		initial := s.Viewer.State()
		updates.put(initial)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("viewer: websocket read", "session", s.ID, "err", err)
				}
				return
			}

			var cmd Command
			if err := json.Unmarshal(msg, &cmd); err != nil {
				c.send(frame{Type: "error", SessionID: s.ID, Message: "invalid message format"})
				continue
			}
			if _, err := Apply(s.Viewer, cmd); err != nil {
				c.send(frame{Type: "error", SessionID: s.ID, Message: err.Error()})
				continue
			}
			metrics.ViewerCommand(cmd.Command)
		}
	}
}
