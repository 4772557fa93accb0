package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/auth"
)

// RegisterRoutes mounts the public services listing.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/services", listHandler(store))
	r.Get("/api/services/{id}", getHandler(store))
}

// RegisterAdminRoutes mounts service editing. The caller guards r.
func RegisterAdminRoutes(r chi.Router, store *Store, auditStore *audit.Store) {
	r.Post("/api/admin/services", createHandler(store, auditStore))
	r.Put("/api/admin/services/{id}", updateHandler(store, auditStore))
	r.Delete("/api/admin/services/{id}", deleteHandler(store, auditStore))
}

func listHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if list == nil {
			list = []Service{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func createHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		svc, err := store.Create(r.Context(), in)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:   auth.ActorFromContext(r.Context()),
			Action:  audit.ActionServiceCreated,
			Scope:   audit.ScopeService,
			ScopeID: svc.ID,
			Summary: fmt.Sprintf("Added service %q", svc.Title),
		})
		writeJSON(w, http.StatusCreated, svc)
	}
}

func updateHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		svc, err := store.Update(r.Context(), id, in)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:   auth.ActorFromContext(r.Context()),
			Action:  audit.ActionServiceUpdated,
			Scope:   audit.ScopeService,
			ScopeID: id,
			Summary: fmt.Sprintf("Updated service %q", svc.Title),
		})
		writeJSON(w, http.StatusOK, svc)
	}
}

func deleteHandler(store *Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		auditStore.Record(r.Context(), audit.Entry{
			Actor:   auth.ActorFromContext(r.Context()),
			Action:  audit.ActionServiceDeleted,
			Scope:   audit.ScopeService,
			ScopeID: id,
			Summary: "Deleted service",
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
