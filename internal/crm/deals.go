package crm

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

func (s *Store) validateDeal(ctx context.Context, in *DealInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Value = strings.TrimSpace(in.Value)
	in.ContactID = strings.TrimSpace(in.ContactID)
	if in.Status == "" {
		in.Status = DealLead
	}

	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalid)
	case !in.Status.valid():
		return fmt.Errorf("%w: unknown deal status %q", ErrInvalid, in.Status)
	}
	if in.ContactID != "" {
		if _, err := s.GetContact(ctx, in.ContactID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: unknown contact %q", ErrInvalid, in.ContactID)
			}
			return err
		}
	}
	return nil
}

const dealColumns = `id, title, contact_id, value, status, created_at, updated_at`

// ListDeals returns deals newest first, optionally restricted to one status.
func (s *Store) ListDeals(ctx context.Context, status DealStatus) ([]Deal, error) {
	query := "SELECT " + dealColumns + " FROM crm_deals"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var out []Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDeal returns the deal with the given ID.
func (s *Store) GetDeal(ctx context.Context, id string) (Deal, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+dealColumns+" FROM crm_deals WHERE id = ?", id)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Deal{}, ErrNotFound
	}
	if err != nil {
		return Deal{}, fmt.Errorf("getting deal: %w", err)
	}
	return d, nil
}

// CreateDeal adds a deal. An empty status means lead.
func (s *Store) CreateDeal(ctx context.Context, in DealInput) (Deal, error) {
	if err := s.validateDeal(ctx, &in); err != nil {
		return Deal{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	d := Deal{
		ID:        uuid.New().String(),
		Title:     in.Title,
		ContactID: in.ContactID,
		Value:     in.Value,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crm_deals (id, title, contact_id, value, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, nullString(d.ContactID), d.Value, string(d.Status),
		db.FormatTime(d.CreatedAt), db.FormatTime(d.UpdatedAt),
	)
	if err != nil {
		return Deal{}, fmt.Errorf("inserting deal: %w", err)
	}
	return d, nil
}

// UpdateDeal replaces the editable fields of a deal.
func (s *Store) UpdateDeal(ctx context.Context, id string, in DealInput) (Deal, error) {
	if err := s.validateDeal(ctx, &in); err != nil {
		return Deal{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE crm_deals SET title = ?, contact_id = ?, value = ?, status = ?, updated_at = ? WHERE id = ?`,
		in.Title, nullString(in.ContactID), in.Value, string(in.Status),
		db.FormatTime(time.Now()), id,
	)
	if err != nil {
		return Deal{}, fmt.Errorf("updating deal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Deal{}, ErrNotFound
	}
	return s.GetDeal(ctx, id)
}

// DeleteDeal removes a deal.
func (s *Store) DeleteDeal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crm_deals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDeal(sc scanner) (Deal, error) {
	var (
		d                    Deal
		contactID            sql.NullString
		status               string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&d.ID, &d.Title, &contactID, &d.Value, &status, &createdAt, &updatedAt); err != nil {
		return Deal{}, err
	}
	d.ContactID = contactID.String
	d.Status = DealStatus(status)
	d.CreatedAt = db.ParseTime(createdAt)
	d.UpdatedAt = db.ParseTime(updatedAt)
	return d, nil
}
