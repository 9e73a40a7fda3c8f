package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	loginFailures  prometheus.Counter
	orphansRemoved prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "club_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_http_errors_total",
			Help: "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "club_media_uploads_total",
			Help: "Media uploads by folder and result.",
		}, []string{"folder", "result"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_login_failures_total",
			Help: "Rejected login attempts.",
		}),
		orphansRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "club_media_orphans_removed_total",
			Help: "Uploaded objects removed after the owning write failed.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.errors, m.uploads, m.loginFailures, m.orphansRemoved)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordUpload counts an upload attempt for folder.
func (m *Metrics) RecordUpload(folder string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.uploads.WithLabelValues(folder, result).Inc()
}

// RecordLoginFailure counts a rejected login.
func (m *Metrics) RecordLoginFailure() {
	if m == nil {
		return
	}
	m.loginFailures.Inc()
}

// RecordOrphanRemoved counts a cleaned-up upload.
func (m *Metrics) RecordOrphanRemoved() {
	if m == nil {
		return
	}
	m.orphansRemoved.Inc()
}
