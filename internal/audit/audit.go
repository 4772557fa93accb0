package audit

import "time"

// Action describes what an admin did.
type Action string

const (
	ActionItemCreated    Action = "item_created"
	ActionItemUpdated    Action = "item_updated"
	ActionItemDeleted    Action = "item_deleted"
	ActionServiceCreated Action = "service_created"
	ActionServiceUpdated Action = "service_updated"
	ActionServiceDeleted Action = "service_deleted"
	ActionDealCreated    Action = "deal_created"
	ActionDealUpdated    Action = "deal_updated"
	ActionDealDeleted    Action = "deal_deleted"
	ActionContactStatus  Action = "contact_status_changed"
	ActionLogin          Action = "admin_login"
	ActionLogout         Action = "admin_logout"
)

// Scope names the kind of record an action touched.
type Scope string

const (
	ScopeItem    Scope = "item"
	ScopeService Scope = "service"
	ScopeDeal    Scope = "deal"
	ScopeContact Scope = "contact"
	ScopeSession Scope = "session"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        Action    `json:"action"`
	Scope         Scope     `json:"scope"`
	ScopeID       string    `json:"scope_id,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}
