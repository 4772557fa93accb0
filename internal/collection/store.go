// Package collection stores the dealer's catalog of antiques. Two backends
// implement Store: SQLStore on the shared SQLite database and FileStore on a
// single JSON file.
package collection

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no item has the requested ID.
var ErrNotFound = errors.New("item not found")

// Store is the catalog persistence contract.
type Store interface {
	List(ctx context.Context, f Filter) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Add(ctx context.Context, it Item) (Item, error)
	Update(ctx context.Context, id string, p ItemPatch) (Item, error)
	Delete(ctx context.Context, id string) error
}
