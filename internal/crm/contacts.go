package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lunar-antiques/lunar/internal/db"
)

// Store persists contacts and deals in the shared SQLite database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store on the given database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

type scanner interface {
	Scan(dest ...any) error
}

func validateContact(in *ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.InquiryType = strings.TrimSpace(in.InquiryType)

	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalid)
	case in.Subject == "":
		return fmt.Errorf("%w: subject is required", ErrInvalid)
	case in.Message == "":
		return fmt.Errorf("%w: message is required", ErrInvalid)
	case in.InquiryType != "" && !knownInquiryType(in.InquiryType):
		return fmt.Errorf("%w: unknown inquiry type %q", ErrInvalid, in.InquiryType)
	}

	addr, err := mail.ParseAddress(in.Email)
	if err != nil {
		return fmt.Errorf("%w: email address is not valid", ErrInvalid)
	}
	in.Email = addr.Address
	return nil
}

// SubmitContact validates and stores a new inquiry with status new.
func (s *Store) SubmitContact(ctx context.Context, in ContactInput) (Contact, error) {
	if err := validateContact(&in); err != nil {
		return Contact{}, err
	}

	c := Contact{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Subject:     in.Subject,
		Message:     in.Message,
		InquiryType: in.InquiryType,
		Status:      ContactNew,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crm_contacts (id, name, email, phone, subject, message, inquiry_type, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, nullString(c.Phone), c.Subject, c.Message, nullString(c.InquiryType),
		string(c.Status), db.FormatTime(c.CreatedAt),
	)
	if err != nil {
		return Contact{}, fmt.Errorf("inserting contact: %w", err)
	}
	return c, nil
}

const contactColumns = `id, name, email, phone, subject, message, inquiry_type, status, created_at`

// ListContacts returns the newest contacts first. A limit of zero or less
// returns all of them.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]Contact, error) {
	query := "SELECT " + contactColumns + " FROM crm_contacts ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetContact returns the contact with the given ID.
func (s *Store) GetContact(ctx context.Context, id string) (Contact, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM crm_contacts WHERE id = ?", id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("getting contact: %w", err)
	}
	return c, nil
}

// SetContactStatus moves a contact to status.
func (s *Store) SetContactStatus(ctx context.Context, id string, status ContactStatus) error {
	if !status.valid() {
		return fmt.Errorf("%w: unknown contact status %q", ErrInvalid, status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE crm_contacts SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating contact status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanContact(sc scanner) (Contact, error) {
	var (
		c                  Contact
		phone, inquiryType sql.NullString
		status, createdAt  string
	)
	err := sc.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.Subject, &c.Message, &inquiryType, &status, &createdAt)
	if err != nil {
		return Contact{}, err
	}
	c.Phone = phone.String
	c.InquiryType = inquiryType.String
	c.Status = ContactStatus(status)
	c.CreatedAt = db.ParseTime(createdAt)
	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
