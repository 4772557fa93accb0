package notifications

import "time"

// Type categorises the event that triggered a notification.
type Type string

const (
	TypeInquiryReceived Type = "inquiry_received"
)

// Notification is the JSON body POSTed to a webhook.
type Notification struct {
	Type      Type              `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
