// Package crm records inquiries from the public contact form and the
// dealer's sales pipeline.
package crm

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no contact or deal has the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid input")
)

// ContactStatus tracks how far an inquiry has been handled.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactActive   ContactStatus = "active"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) valid() bool {
	switch s {
	case ContactNew, ContactActive, ContactArchived:
		return true
	}
	return false
}

// DealStatus is a deal's position in the pipeline.
type DealStatus string

const (
	DealLead        DealStatus = "lead"
	DealNegotiation DealStatus = "negotiation"
	DealClosedWon   DealStatus = "closed_won"
	DealClosedLost  DealStatus = "closed_lost"
)

func (s DealStatus) valid() bool {
	switch s {
	case DealLead, DealNegotiation, DealClosedWon, DealClosedLost:
		return true
	}
	return false
}

// Open reports whether the deal still counts towards the pipeline.
func (s DealStatus) Open() bool {
	return s != DealClosedWon && s != DealClosedLost
}

// InquiryType is the reason a visitor gives for getting in touch.
type InquiryType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InquiryTypes lists the choices offered on the contact form.
var InquiryTypes = []InquiryType{
	{"general", "General Inquiry"},
	{"purchase", "Purchase Inquiry"},
	{"valuation", "Valuation Request"},
	{"authentication", "Authentication Service"},
	{"consultation", "Design Consultation"},
	{"commission", "Commission Search"},
	{"trade", "Trade Account"},
	{"restoration", "Restoration Inquiry"},
}

func knownInquiryType(v string) bool {
	for _, t := range InquiryTypes {
		if t.Value == v {
			return true
		}
	}
	return false
}

// Contact is one inquiry submitted through the contact form.
type Contact struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone,omitempty"`
	Subject     string        `json:"subject"`
	Message     string        `json:"message"`
	InquiryType string        `json:"inquiry_type,omitempty"`
	Status      ContactStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ContactInput is the body of a contact form submission.
type ContactInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	InquiryType string `json:"inquiry_type"`
}

// Deal is a potential sale in the pipeline. Value is a display string such
// as "£2,850".
type Deal struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ContactID string     `json:"contact_id,omitempty"`
	Value     string     `json:"value"`
	Status    DealStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DealInput holds the editable fields of a deal.
type DealInput struct {
	Title     string     `json:"title"`
	ContactID string     `json:"contact_id"`
	Value     string     `json:"value"`
	Status    DealStatus `json:"status"`
}

// Stats summarises the pipeline for the admin dashboard.
type Stats struct {
	OpenDeals      int     `json:"open_deals"`
	PipelineValue  float64 `json:"pipeline_value"`
	ActiveContacts int     `json:"active_contacts"`
}
