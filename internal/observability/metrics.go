package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderops"

// Login outcomes
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginMissingFields      = "missing_fields"
	LoginError              = "error"
)

// Metrics holds the gateway collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	gatewayDecisions *prometheus.CounterVec
	resolutions      *prometheus.CounterVec
	logins           *prometheus.CounterVec
	resolvePanics    prometheus.Counter
}

// NewMetrics registers the collectors on a fresh registry, so tests and
// multiple servers in one process never collide on the default registerer.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		gatewayDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "decisions_total",
			Help:      "Gateway decisions by route classification and action",
		}, []string{"classification", "action"}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "resolutions_total",
			Help:      "Session resolutions by the issuance path that supplied the identity",
		}, []string{"source"}),

		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by issuance path and outcome",
		}, []string{"path", "outcome"}),

		resolvePanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "decode_panics_total",
			Help:      "Token decodes that panicked and were treated as absent",
		}),
	}
}

// RecordDecision counts one gateway decision
func (m *Metrics) RecordDecision(classification, action string) {
	if m == nil {
		return
	}
	m.gatewayDecisions.WithLabelValues(classification, action).Inc()
}

// RecordResolution counts one session resolution
func (m *Metrics) RecordResolution(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}

// RecordLogin counts one login attempt
func (m *Metrics) RecordLogin(path, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(path, outcome).Inc()
}

// RecordDecodePanic counts a recovered panic during token decoding
func (m *Metrics) RecordDecodePanic() {
	if m == nil {
		return
	}
	m.resolvePanics.Inc()
}

// Registry exposes the underlying registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
