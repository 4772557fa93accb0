package viewer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lunar-antiques/lunar/internal/metrics"
)

// ErrSessionNotFound is returned for an unknown or closed session ID.
var ErrSessionNotFound = errors.New("viewer: session not found")

// Session is a registered viewer bound to a catalog item.
type Session struct {
	ID       string
	ItemID   string
	OpenedAt time.Time
	Viewer   *Viewer

	// Connected sessions belong to a WebSocket and are closed with it
	// rather than by Reap.
	Connected bool

	lastUsed atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

// LastUsed is when the session was opened or last looked up.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// Registry tracks open viewer sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
}

// NewRegistry creates a registry whose viewers share opts. Per-session
// OnChange listeners are supplied at Open.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Open creates a viewer over images and registers it. onChange may be nil;
// a non-nil onChange marks the session as connected.
func (r *Registry) Open(images []string, title, description, itemID string, onChange func(State)) (*Session, error) {
	opts := r.opts
	opts.OnChange = onChange
	opts.OnTick = metrics.ViewerAutoRotateTick

	v, err := New(images, title, description, opts)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		OpenedAt:  time.Now().UTC(),
		Viewer:    v,
		Connected: onChange != nil,
	}
	s.touch(s.OpenedAt)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	metrics.ViewerSessionOpened()

	return s, nil
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(time.Now())
	return s, nil
}

// Close closes and forgets the session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Viewer.Close()
	metrics.ViewerSessionClosed()
	return nil
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Viewer.Close()
		metrics.ViewerSessionClosed()
	}
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap closes sessions that are not connected and have not been used for
// longer than idle. It returns how many were closed.
func (r *Registry) Reap(now time.Time, idle time.Duration) int {
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if !s.Connected && now.Sub(s.LastUsed()) > idle {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Viewer.Close()
		metrics.ViewerSessionClosed()
	}
	return len(stale)
}
