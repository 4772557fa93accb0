package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/metrics"
)

// ItemSource looks up catalog items by ID. collection.Store satisfies it.
type ItemSource interface {
	Get(ctx context.Context, id string) (collection.Item, error)
}

// sessionResponse is returned by the session endpoints.
type sessionResponse struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	State     State  `json:"state"`
}

// RegisterRoutes mounts the REST session endpoints.
func RegisterRoutes(r chi.Router, reg *Registry, items ItemSource) {
	r.Post("/api/viewer/sessions", openHandler(reg, items))
	r.Get("/api/viewer/sessions/{id}", stateHandler(reg))
	r.Post("/api/viewer/sessions/{id}/commands", commandHandler(reg))
	r.Delete("/api/viewer/sessions/{id}", closeHandler(reg))
}

// RegisterWebSocket mounts the live viewer socket. It must not sit behind
// a request timeout.
func RegisterWebSocket(r chi.Router, reg *Registry, items ItemSource) {
	r.Get("/ws/viewer", wsHandler(reg, items))
}

func openHandler(reg *Registry, items ItemSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ItemID string `json:"item_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
			writeError(w, http.StatusBadRequest, "item_id is required")
			return
		}

		s, status, err := openForItem(r.Context(), reg, items, req.ItemID, nil)
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{
			SessionID: s.ID,
			ItemID:    s.ItemID,
			State:     s.Viewer.State(),
		})
	}
}

// openForItem resolves itemID and opens a session over its images. The
// returned status is meaningful only when err is non-nil.
func openForItem(ctx context.Context, reg *Registry, items ItemSource, itemID string, onChange func(State)) (*Session, int, error) {
	it, err := items.Get(ctx, itemID)
	if errors.Is(err, collection.ErrNotFound) {
		return nil, http.StatusNotFound, err
	}
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	s, err := reg.Open(it.Images, it.Title, it.Description, it.ID, onChange)
	if errors.Is(err, ErrEmptySequence) {
		return nil, http.StatusUnprocessableEntity, err
	}
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return s, 0, nil
}

func stateHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := reg.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, ItemID: s.ItemID, State: s.Viewer.State()})
	}
}

func commandHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := reg.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		var cmd Command
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st, err := Apply(s.Viewer, cmd)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		metrics.ViewerCommand(cmd.Command)
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, ItemID: s.ItemID, State: st})
	}
}

func closeHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := reg.Close(chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
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
