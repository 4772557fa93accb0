// Package services manages the services page content: each service with an
// ordered list of features.
package services

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

var (
	// ErrNotFound is returned for an unknown service ID.
	ErrNotFound = errors.New("service not found")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid service")
)

// Store provides CRUD operations for services and their features.
type Store struct {
	db *db.DB
}

// NewStore creates a new services store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

func validate(in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Pricing = strings.TrimSpace(in.Pricing)
	in.Features = compact(in.Features)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	return nil
}

// List returns all services in display order with their features.
func (s *Store) List(ctx context.Context) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, pricing, display_order, created_at, updated_at
		 FROM cms_services ORDER BY display_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	var list []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		list = append(list, svc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	features, err := s.allFeatures(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Features = features[list[i].ID]
		if list[i].Features == nil {
			list[i].Features = []string{}
		}
	}
	return list, nil
}

// Get retrieves a service by ID, including its features.
func (s *Store) Get(ctx context.Context, id string) (Service, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, pricing, display_order, created_at, updated_at
		 FROM cms_services WHERE id = ?`, id)
	svc, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Service{}, ErrNotFound
	}
	if err != nil {
		return Service{}, fmt.Errorf("getting service: %w", err)
	}

	features, err := s.features(ctx, id)
	if err != nil {
		return Service{}, err
	}
	svc.Features = features
	return svc, nil
}

// Create inserts a service at the end of the display order.
func (s *Store) Create(ctx context.Context, in Input) (Service, error) {
	if err := validate(&in); err != nil {
		return Service{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Service{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(display_order) FROM cms_services`).Scan(&maxOrder); err != nil {
		return Service{}, fmt.Errorf("reading display order: %w", err)
	}
	order := 0
	if maxOrder.Valid {
		order = int(maxOrder.Int64) + 1
	}

	now := time.Now().UTC().Truncate(time.Second)
	svc := Service{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		Pricing:      in.Pricing,
		Features:     []string(in.Features),
		DisplayOrder: order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cms_services (id, title, description, pricing, display_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		svc.ID, svc.Title, svc.Description, svc.Pricing, svc.DisplayOrder,
		db.FormatTime(now), db.FormatTime(now),
	)
	if err != nil {
		return Service{}, fmt.Errorf("inserting service: %w", err)
	}
	if err := insertFeatures(ctx, tx, svc.ID, svc.Features); err != nil {
		return Service{}, err
	}
	if err := tx.Commit(); err != nil {
		return Service{}, fmt.Errorf("committing service: %w", err)
	}
	return svc, nil
}

// Update replaces a service's fields and its whole feature list.
func (s *Store) Update(ctx context.Context, id string, in Input) (Service, error) {
	if err := validate(&in); err != nil {
		return Service{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Service{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		`UPDATE cms_services SET title=?, description=?, pricing=?, updated_at=? WHERE id=?`,
		in.Title, in.Description, in.Pricing, db.FormatTime(now), id,
	)
	if err != nil {
		return Service{}, fmt.Errorf("updating service: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Service{}, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cms_service_features WHERE service_id = ?`, id); err != nil {
		return Service{}, fmt.Errorf("clearing features: %w", err)
	}
	if err := insertFeatures(ctx, tx, id, in.Features); err != nil {
		return Service{}, err
	}
	if err := tx.Commit(); err != nil {
		return Service{}, fmt.Errorf("committing service: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a service and its features.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cms_service_features WHERE service_id = ?`, id); err != nil {
		return fmt.Errorf("deleting features: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cms_services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) features(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feature_text FROM cms_service_features WHERE service_id = ? ORDER BY display_order`, id)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}
	defer rows.Close()

	features := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		features = append(features, text)
	}
	return features, rows.Err()
}

func (s *Store) allFeatures(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT service_id, feature_text FROM cms_service_features ORDER BY service_id, display_order`)
	if err != nil {
		return nil, fmt.Errorf("listing features: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		out[id] = append(out[id], text)
	}
	return out, rows.Err()
}

func insertFeatures(ctx context.Context, tx *sql.Tx, id string, features []string) error {
	for i, text := range features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cms_service_features (service_id, feature_text, display_order) VALUES (?, ?, ?)`,
			id, text, i,
		); err != nil {
			return fmt.Errorf("inserting feature %d: %w", i, err)
		}
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanService(sc scanner) (Service, error) {
	var (
		svc              Service
		created, updated string
	)
	if err := sc.Scan(&svc.ID, &svc.Title, &svc.Description, &svc.Pricing, &svc.DisplayOrder, &created, &updated); err != nil {
		return Service{}, err
	}
	svc.CreatedAt = db.ParseTime(created)
	svc.UpdatedAt = db.ParseTime(updated)
	return svc, nil
}
