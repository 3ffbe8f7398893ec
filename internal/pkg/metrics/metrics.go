package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Registrations   *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	Uploads         *prometheus.CounterVec
	CredentialViews *prometheus.CounterVec
}

// New creates a private registry and registers every collector on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lodgecred_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lodgecred_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lodgecred_registrations_total",
			Help: "Member registrations by outcome",
		}, []string{"outcome"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lodgecred_status_transitions_total",
			Help: "Admin status transitions by target status",
		}, []string{"status"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lodgecred_document_uploads_total",
			Help: "Document uploads by kind and outcome",
		}, []string{"kind", "outcome"}),
		CredentialViews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lodgecred_credential_views_total",
			Help: "Public credential page loads by outcome",
		}, []string{"outcome"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncTransition(status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncUpload(kind, outcome string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncCredentialView(outcome string) {
	if m == nil {
		return
	}
	m.CredentialViews.WithLabelValues(outcome).Inc()
}
