package collection

import (
	"context"
	"fmt"
)

// Seed adds DefaultItems to an empty store and returns how many were added.
// A store that already holds items is left alone.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, err := s.List(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("checking existing items: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, it := range DefaultItems() {
		if _, err := s.Add(ctx, it); err != nil {
			return n, fmt.Errorf("seeding %q: %w", it.Title, err)
		}
		n++
	}
	return n, nil
}
