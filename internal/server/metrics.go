package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	builds       *prometheus.HistogramVec
	chartFailure *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genviz",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genviz",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		builds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "genviz",
			Name:      "chart_build_duration_seconds",
			Help:      "Time to load and build one chart.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		chartFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "genviz",
			Name:      "chart_failures_total",
			Help:      "Charts that could not be built, by error kind.",
		}, []string{"error_kind"}),
	}
	reg.MustRegister(m.requests, m.latency, m.builds, m.chartFailure)
	return m
}

// observeBuild records the duration and outcome of a chart build.
func (m *metrics) observeBuild(kind string, start time.Time, errKind string) {
	m.builds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if errKind != "" {
		m.chartFailure.WithLabelValues(errKind).Inc()
	}
}

// instrument counts requests and their latency by chi route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
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
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
