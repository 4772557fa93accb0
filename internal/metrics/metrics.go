// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lunar"

var (
	viewerSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "viewer_sessions_active",
			Help:      "Number of open viewer sessions",
		},
	)

	viewerCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_commands_total",
			Help:      "Viewer commands applied, by command",
		},
		[]string{"command"},
	)

	viewerAutoRotateTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_auto_rotate_ticks_total",
			Help:      "Frames advanced by auto-rotation across all sessions",
		},
	)

	collectionWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_writes_total",
			Help:      "Collection store writes",
		},
		[]string{"op", "status"}, // op: add, update, delete; status: success, error
	)

	adminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_logins_total",
			Help:      "Admin login attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	contactSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Public contact form submissions",
		},
		[]string{"status"}, // status: accepted, invalid, throttled, error
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)
)

var allMetrics = []prometheus.Collector{
	viewerSessionsActive,
	viewerCommandsTotal,
	viewerAutoRotateTicksTotal,
	collectionWritesTotal,
	adminLoginsTotal,
	contactSubmissionsTotal,
	httpRequestDuration,
}

// NewRegistry returns a registry with every lunar collector plus the Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	for _, c := range allMetrics {
		reg.MustRegister(c)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Middleware records request latency labelled by the matched chi route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// ViewerSessionOpened increments the open session gauge.
func ViewerSessionOpened() { viewerSessionsActive.Inc() }

// ViewerSessionClosed decrements the open session gauge.
func ViewerSessionClosed() { viewerSessionsActive.Dec() }

// ViewerCommand counts an applied viewer command.
func ViewerCommand(name string) { viewerCommandsTotal.WithLabelValues(name).Inc() }

// ViewerAutoRotateTick counts one auto-rotation advance.
func ViewerAutoRotateTick() { viewerAutoRotateTicksTotal.Inc() }

// CollectionWrite counts a collection store write.
func CollectionWrite(op string, err error) {
	collectionWritesTotal.WithLabelValues(op, statusOf(err)).Inc()
}

// AdminLogin counts a login attempt.
func AdminLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	adminLoginsTotal.WithLabelValues(result).Inc()
}

// ContactSubmission counts a contact form submission outcome.
func ContactSubmission(status string) {
	contactSubmissionsTotal.WithLabelValues(status).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
