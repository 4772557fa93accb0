package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps the whole catalog in one JSON file. Every write rewrites
// the file through a temp file and rename.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	items []Item
}

// OpenFileStore loads the catalog at path. A missing file is created and
// filled with DefaultItems.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		now := time.Now().UTC().Truncate(time.Second)
		for _, it := range DefaultItems() {
			it.ID = uuid.New().String()
			it.CreatedAt, it.UpdatedAt = now, now
			s.items = append(s.items, it)
		}
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading collection file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.items); err != nil {
			return nil, fmt.Errorf("parsing collection file %s: %w", path, err)
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// List returns items matching f in insertion order.
func (s *FileStore) List(_ context.Context, f Filter) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Item
	for _, it := range s.items {
		if f.Match(it) {
			out = append(out, cloneItem(it))
		}
	}
	return out, nil
}

// Get returns the item with the given ID.
func (s *FileStore) Get(_ context.Context, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Item{}, ErrNotFound
	}
	return cloneItem(s.items[i]), nil
}

// Add validates it, assigns an ID and appends it.
func (s *FileStore) Add(_ context.Context, it Item) (Item, error) {
	if err := Validate(&it); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	it.CreatedAt, it.UpdatedAt = now, now

	s.items = append(s.items, it)
	if err := s.flush(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return Item{}, err
	}
	return cloneItem(it), nil
}

// Update applies p to the stored item.
func (s *FileStore) Update(_ context.Context, id string, p ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Item{}, ErrNotFound
	}
	prev := s.items[i]
	it := p.Apply(prev)
	if err := Validate(&it); err != nil {
		return Item{}, err
	}
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	s.items[i] = it
	if err := s.flush(); err != nil {
		s.items[i] = prev
		return Item{}, err
	}
	return cloneItem(it), nil
}

// Delete removes the item with the given ID.
func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.items
	s.items = append(append([]Item(nil), prev[:i]...), prev[i+1:]...)
	if err := s.flush(); err != nil {
		s.items = prev
		return err
	}
	return nil
}

func (s *FileStore) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// flush writes the catalog atomically. Callers hold the write lock.
func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating collection directory: %w", err)
	}

	items := s.items
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".collection-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing collection file: %w", err)
	}
	return nil
}

func cloneItem(it Item) Item {
	it.Images = append([]string(nil), it.Images...)
	return it
}
