package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lunar-antiques/lunar/internal/db"
)

// SQLStore keeps items in the collection_items table with their image
// sequence in collection_images.
type SQLStore struct {
	db *db.DB
}

// NewSQLStore creates a SQLStore on the given database.
func NewSQLStore(d *db.DB) *SQLStore {
	return &SQLStore{db: d}
}

const itemColumns = `id, title, category, period, price, description, featured, created_at, updated_at`

// List returns items matching f, oldest first.
func (s *SQLStore) List(ctx context.Context, f Filter) ([]Item, error) {
	var (
		clauses []string
		args    []any
	)
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.Period != "" {
		clauses = append(clauses, "period = ?")
		args = append(args, string(f.Period))
	}
	if f.FeaturedOnly {
		clauses = append(clauses, "featured = 1")
	}

	query := "SELECT " + itemColumns + " FROM collection_items"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	images, err := s.allImages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Images = images[items[i].ID]
	}
	return items, nil
}

// Get returns the item with the given ID.
func (s *SQLStore) Get(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM collection_items WHERE id = ?", id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("getting item: %w", err)
	}

	it.Images, err = s.images(ctx, id)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// Add validates and inserts it with a fresh ID.
func (s *SQLStore) Add(ctx context.Context, it Item) (Item, error) {
	if err := Validate(&it); err != nil {
		return Item{}, err
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	it.CreatedAt, it.UpdatedAt = now, now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collection_items (id, title, category, period, price, description, featured, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Title, string(it.Category), string(it.Period), it.Price, it.Description,
		boolToInt(it.Featured), db.FormatTime(it.CreatedAt), db.FormatTime(it.UpdatedAt),
	)
	if err != nil {
		return Item{}, fmt.Errorf("inserting item: %w", err)
	}
	if err := insertImages(ctx, tx, it.ID, it.Images); err != nil {
		return Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return Item{}, fmt.Errorf("committing item: %w", err)
	}
	return it, nil
}

// Update applies p to the stored item. The image list, when present in p,
// replaces the stored sequence.
func (s *SQLStore) Update(ctx context.Context, id string, p ItemPatch) (Item, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	it := p.Apply(current)
	if err := Validate(&it); err != nil {
		return Item{}, err
	}
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE collection_items SET title=?, category=?, period=?, price=?, description=?, featured=?, updated_at=?
		 WHERE id=?`,
		it.Title, string(it.Category), string(it.Period), it.Price, it.Description,
		boolToInt(it.Featured), db.FormatTime(it.UpdatedAt), id,
	)
	if err != nil {
		return Item{}, fmt.Errorf("updating item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Item{}, ErrNotFound
	}

	if p.Images != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM collection_images WHERE item_id = ?`, id); err != nil {
			return Item{}, fmt.Errorf("clearing images: %w", err)
		}
		if err := insertImages(ctx, tx, id, it.Images); err != nil {
			return Item{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Item{}, fmt.Errorf("committing item: %w", err)
	}
	return it, nil
}

// Delete removes the item and, by cascade, its images.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collection_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) images(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT image_url FROM collection_images WHERE item_id = ? ORDER BY display_order`, id)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, url)
	}
	return images, rows.Err()
}

func (s *SQLStore) allImages(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, image_url FROM collection_images ORDER BY item_id, display_order`)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	images := make(map[string][]string)
	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images[id] = append(images[id], url)
	}
	return images, rows.Err()
}

func insertImages(ctx context.Context, tx *sql.Tx, id string, images []string) error {
	for i, url := range images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_images (item_id, image_url, display_order) VALUES (?, ?, ?)`,
			id, url, i,
		); err != nil {
			return fmt.Errorf("inserting image %d: %w", i, err)
		}
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (Item, error) {
	var (
		it               Item
		category, period string
		featured         int
		created, updated string
	)
	if err := sc.Scan(&it.ID, &it.Title, &category, &period, &it.Price, &it.Description,
		&featured, &created, &updated); err != nil {
		return Item{}, err
	}
	it.Category = Category(category)
	it.Period = Period(period)
	it.Featured = featured != 0
	it.CreatedAt = db.ParseTime(created)
	it.UpdatedAt = db.ParseTime(updated)
	return it, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
