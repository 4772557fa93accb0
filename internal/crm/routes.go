package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/auth"
	"github.com/lunar-antiques/lunar/internal/metrics"
	"github.com/lunar-antiques/lunar/internal/notifications"
)

// Notifier is told about every accepted inquiry.
type Notifier interface {
	Notify(ctx context.Context, n notifications.Notification)
}

// NewLimiter allows perMinute contact submissions per minute across the
// process, with a burst of the same size. Zero or less disables the limit.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// RegisterRoutes mounts the public contact form endpoints. limiter and
// notifier may be nil.
func RegisterRoutes(r chi.Router, store *Store, limiter *rate.Limiter, notifier Notifier) {
	r.Get("/api/contact/inquiry-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, InquiryTypes)
	})
	r.Post("/api/contact", submitHandler(store, limiter, notifier))
}

// RegisterAdminRoutes mounts the CRM dashboard endpoints. The caller guards r.
func RegisterAdminRoutes(r chi.Router, store *Store, auditStore *audit.Store) {
	r.Route("/api/admin/crm", func(r chi.Router) {
		r.Get("/stats", statsHandler(store))
		r.Get("/contacts", listContactsHandler(store))
		r.Get("/contacts/{id}", getContactHandler(store))
		r.Put("/contacts/{id}/status", contactStatusHandler(store, auditStore))
		r.Get("/deals", listDealsHandler(store))
		r.Post("/deals", createDealHandler(store, auditStore))
		r.Get("/deals/{id}", getDealHandler(store))
		r.Put("/deals/{id}", updateDealHandler(store, auditStore))
		r.Delete("/deals/{id}", deleteDealHandler(store, auditStore))
	})
}

func submitHandler(store *Store, limiter *rate.Limiter, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow() {
			metrics.ContactSubmission("throttled")
			writeError(w, http.StatusTooManyRequests, "too many submissions, please try again shortly")
			return
		}

		var in ContactInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			metrics.ContactSubmission("invalid")
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		c, err := store.SubmitContact(r.Context(), in)
		if err != nil {
			if errors.Is(err, ErrInvalid) {
				metrics.ContactSubmission("invalid")
			} else {
				metrics.ContactSubmission("error")
			}
			writeStoreError(w, err)
			return
		}
		metrics.ContactSubmission("accepted")

		if notifier != nil {
			notifier.Notify(r.Context(), inquiryNotification(c))
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"id":      c.ID,
			"message": "Thank you for your inquiry. We'll respond within 24 hours.",
		})
	}
}

func inquiryNotification(c Contact) notifications.Notification {
	fields := map[string]string{
		"contact_id": c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"subject":    c.Subject,
	}
	if c.Phone != "" {
		fields["phone"] = c.Phone
	}
	if c.InquiryType != "" {
		fields["inquiry_type"] = c.InquiryType
	}
	return notifications.Notification{
		Type:      notifications.TypeInquiryReceived,
		Title:     fmt.Sprintf("New inquiry from %s", c.Name),
		Message:   c.Message,
		Fields:    fields,
		CreatedAt: c.CreatedAt,
	}
}

func statsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func listContactsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "limit must be a number")
				return
			}
			limit = n
		}
		contacts, err := store.ListContacts(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if contacts == nil {
			contacts = []Contact{}
		}
		writeJSON(w, http.StatusOK, contacts)
	}
}

func getContactHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetContact(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func contactStatusHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var body struct {
			Status ContactStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prev, err := store.GetContact(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if err := store.SetContactStatus(r.Context(), id, body.Status); err != nil {
			writeStoreError(w, err)
			return
		}

		auditStore.Record(r.Context(), audit.Entry{
			Actor:         auth.ActorFromContext(r.Context()),
			Action:        audit.ActionContactStatus,
			Scope:         audit.ScopeContact,
			ScopeID:       id,
			Summary:       fmt.Sprintf("Marked inquiry from %s as %s", prev.Name, body.Status),
			PreviousValue: string(prev.Status),
			NewValue:      string(body.Status),
		})
		prev.Status = body.Status
		writeJSON(w, http.StatusOK, prev)
	}
}

func listDealsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deals, err := store.ListDeals(r.Context(), DealStatus(r.URL.Query().Get("status")))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if deals == nil {
			deals = []Deal{}
		}
		writeJSON(w, http.StatusOK, deals)
	}
}

func getDealHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := store.GetDeal(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func createDealHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in DealInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		d, err := store.CreateDeal(r.Context(), in)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:    auth.ActorFromContext(r.Context()),
			Action:   audit.ActionDealCreated,
			Scope:    audit.ScopeDeal,
			ScopeID:  d.ID,
			Summary:  fmt.Sprintf("Opened deal %q (%s)", d.Title, d.Value),
			NewValue: string(d.Status),
		})
		writeJSON(w, http.StatusCreated, d)
	}
}

func updateDealHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in DealInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		prev, err := store.GetDeal(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		d, err := store.UpdateDeal(r.Context(), id, in)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:         auth.ActorFromContext(r.Context()),
			Action:        audit.ActionDealUpdated,
			Scope:         audit.ScopeDeal,
			ScopeID:       id,
			Summary:       fmt.Sprintf("Updated deal %q", d.Title),
			PreviousValue: string(prev.Status),
			NewValue:      string(d.Status),
		})
		writeJSON(w, http.StatusOK, d)
	}
}

func deleteDealHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		prev, err := store.GetDeal(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if err := store.DeleteDeal(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:   auth.ActorFromContext(r.Context()),
			Action:  audit.ActionDealDeleted,
			Scope:   audit.ScopeDeal,
			ScopeID: id,
			Summary: fmt.Sprintf("Deleted deal %q", prev.Title),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
