package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/lunar-antiques/lunar/internal/audit"
	"github.com/lunar-antiques/lunar/internal/auth"
	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/crm"
	"github.com/lunar-antiques/lunar/internal/metrics"
	"github.com/lunar-antiques/lunar/internal/pages"
	"github.com/lunar-antiques/lunar/internal/services"
	"github.com/lunar-antiques/lunar/internal/viewer"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Deps are the components the server mounts. Pages, Notifier, Limiter and
// Metrics are optional.
type Deps struct {
	Items    collection.Store
	Services *services.Store
	CRM      *crm.Store
	Audit    *audit.Store
	Gate     *auth.Gate
	Viewers  *viewer.Registry
	Pages    *pages.Renderer
	Notifier crm.Notifier
	Limiter  *rate.Limiter
	Metrics  *prometheus.Registry
}

// Server is the public site and admin API.
type Server struct {
	cfg        Config
	deps       Deps
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes mounted.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(s.router, "lunar"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if s.deps.Metrics != nil {
		r.Handle("/metrics", metrics.Handler(s.deps.Metrics))
	}

	d := s.deps
	viewer.RegisterWebSocket(r, d.Viewers, d.Items)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		if d.Pages != nil {
			pages.RegisterRoutes(r, d.Pages)
		}
		collection.RegisterRoutes(r, d.Items)
		viewer.RegisterRoutes(r, d.Viewers, d.Items)
		if d.Services != nil {
			services.RegisterRoutes(r, d.Services)
		}
		if d.CRM != nil {
			crm.RegisterRoutes(r, d.CRM, d.Limiter, d.Notifier)
		}
		auth.RegisterRoutes(r, d.Gate, d.Audit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(d.Gate))
			collection.RegisterAdminRoutes(r, d.Items, d.Audit)
			if d.Services != nil {
				services.RegisterAdminRoutes(r, d.Services, d.Audit)
			}
			if d.CRM != nil {
				crm.RegisterAdminRoutes(r, d.CRM, d.Audit)
			}
			if d.Audit != nil {
				audit.RegisterRoutes(r, d.Audit)
			}
		})
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port. After Shutdown it returns
// http.ErrServerClosed without listening.
func (s *Server) Start() error {
	slog.Info("lunar server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. It is safe to call before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
