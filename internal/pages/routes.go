package pages

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes serves "/" and "/{page}" from rd.
func RegisterRoutes(r chi.Router, rd *Renderer) {
	r.Get("/", pageHandler(rd, "home"))
	r.Get("/{page}", func(w http.ResponseWriter, r *http.Request) {
		pageHandler(rd, chi.URLParam(r, "page"))(w, r)
	})
}

func pageHandler(rd *Renderer, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := rd.Render(&buf, name); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.Error("rendering page", "page", name, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}
