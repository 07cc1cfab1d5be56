package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "socioplus",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socioplus",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "socioplus",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socioplus",
			Subsystem: "users",
			Name:      "registrations_total",
			Help:      "Total number of registered users by role.",
		},
		[]string{"role"},
	)

	opportunitiesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "socioplus",
			Subsystem: "opportunities",
			Name:      "created_total",
			Help:      "Total number of opportunities posted.",
		},
	)

	applications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socioplus",
			Subsystem: "applications",
			Name:      "events_total",
			Help:      "Application workflow events by outcome.",
		},
		[]string{"event"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		registrations,
		opportunitiesCreated,
		applications,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func UserRegistered(role string) {
	registrations.WithLabelValues(role).Inc()
}

func OpportunityCreated() {
	opportunitiesCreated.Inc()
}

// ApplicationEvent counts submitted, duplicate, accepted and rejected events.
func ApplicationEvent(event string) {
	applications.WithLabelValues(event).Inc()
}
