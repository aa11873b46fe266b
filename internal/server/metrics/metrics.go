// Package metrics provides Prometheus instrumentation for the files manager.
//
// All methods are safe on a nil *Metrics, which records nothing. Callers that
// run without a registry pass nil instead of wiring a no-op.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job results reported by the thumbnail pipeline.
const (
	JobSucceeded = "succeeded"
	JobSkipped   = "skipped"
	JobRetried   = "retried"
	JobFailed    = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	enqueueFailures prometheus.Counter
	uploads         *prometheus.CounterVec
	jobs            *prometheus.CounterVec
	jobDuration     prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors on reg. A nil reg yields a nil *Metrics.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		enqueueFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "filesmanager_thumbnail_enqueue_failures_total",
			Help: "Thumbnail jobs that could not be enqueued after an image upload",
		}),
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filesmanager_uploads_total",
			Help: "Created records by kind",
		}, []string{"kind"}),
		jobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filesmanager_thumbnail_jobs_total",
			Help: "Processed thumbnail jobs by result",
		}, []string{"result"}),
		jobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "filesmanager_thumbnail_job_duration_seconds",
			Help:    "Time spent rendering all derivatives of one image",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "filesmanager_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "filesmanager_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) EnqueueFailed() {
	if m == nil {
		return
	}
	m.enqueueFailures.Inc()
}

func (m *Metrics) Uploaded(kind string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(kind).Inc()
}

func (m *Metrics) JobFinished(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(result).Inc()
	m.jobDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
