package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/auth"
	"github.com/lunar-antiques/lunar/internal/metrics"
)

// RegisterRoutes mounts the public, read-only catalog endpoints.
func RegisterRoutes(r chi.Router, store Store) {
	r.Get("/api/collection", listHandler(store))
	r.Get("/api/collection/options", optionsHandler())
	r.Get("/api/collection/{id}", getHandler(store))
}

// RegisterAdminRoutes mounts the catalog write endpoints. The caller is
// expected to guard r with the admin gate.
func RegisterAdminRoutes(r chi.Router, store Store, auditStore *audit.Store) {
	r.Post("/api/admin/collection", addHandler(store, auditStore))
	r.Put("/api/admin/collection/{id}", updateHandler(store, auditStore))
	r.Delete("/api/admin/collection/{id}", deleteHandler(store, auditStore))
}

func listHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := Filter{
			Category: Category(q.Get("category")),
			Period:   Period(q.Get("period")),
		}
		if v := q.Get("featured"); v != "" {
			featured, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "featured must be true or false")
				return
			}
			f.FeaturedOnly = featured
		}

		items, err := store.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []Item{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func optionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]Option{
			"categories": Categories,
			"periods":    Periods,
		})
	}
}

func getHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, it)
	}
}

func addHandler(store Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var it Item
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		it.ID = ""

		created, err := store.Add(r.Context(), it)
		metrics.CollectionWrite("add", err)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		auditStore.Record(r.Context(), audit.Entry{
			Actor:    auth.ActorFromContext(r.Context()),
			Action:   audit.ActionItemCreated,
			Scope:    audit.ScopeItem,
			ScopeID:  created.ID,
			Summary:  fmt.Sprintf("Added %q", created.Title),
			NewValue: marshalForAudit(created),
		})
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateHandler(store Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var p ItemPatch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prev, err := store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := store.Update(r.Context(), id, p)
		metrics.CollectionWrite("update", err)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		auditStore.Record(r.Context(), audit.Entry{
			Actor:         auth.ActorFromContext(r.Context()),
			Action:        audit.ActionItemUpdated,
			Scope:         audit.ScopeItem,
			ScopeID:       id,
			Summary:       fmt.Sprintf("Updated %q", updated.Title),
			PreviousValue: marshalForAudit(prev),
			NewValue:      marshalForAudit(updated),
		})
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteHandler(store Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		prev, err := store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		err = store.Delete(r.Context(), id)
		metrics.CollectionWrite("delete", err)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		auditStore.Record(r.Context(), audit.Entry{
			Actor:         auth.ActorFromContext(r.Context()),
			Action:        audit.ActionItemDeleted,
			Scope:         audit.ScopeItem,
			ScopeID:       id,
			Summary:       fmt.Sprintf("Deleted %q", prev.Title),
			PreviousValue: marshalForAudit(prev),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidItem):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func marshalForAudit(it Item) string {
	data, err := json.Marshal(it)
	if err != nil {
		return ""
	}
	return string(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
