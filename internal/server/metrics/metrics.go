// Package metrics exposes Prometheus counters for the identity endpoints.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics owns its registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal    *prometheus.CounterVec
	NoncesIssued   prometheus.Counter
	OTPRotations   prometheus.Counter
	GateRejections *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easyadmin_logins_total",
				Help: "Login attempts by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		NoncesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyadmin_nonces_issued_total",
			Help: "Login nonces handed out",
		}),
		OTPRotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "easyadmin_otp_rotations_total",
			Help: "Times the one-time code was regenerated",
		}),
		GateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "easyadmin_gate_rejections_total",
				Help: "Requests refused by the bearer token gate by reason",
			},
			[]string{"reason"},
		),
	}

	m.registry.MustRegister(
		m.LoginsTotal,
		m.NoncesIssued,
		m.OTPRotations,
		m.GateRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// The Record helpers are safe on a nil *Metrics so callers can run without
// instrumentation.

func (m *Metrics) RecordLogin(method, outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) RecordNonce() {
	if m == nil {
		return
	}
	m.NoncesIssued.Inc()
}

func (m *Metrics) RecordOTPRotation() {
	if m == nil {
		return
	}
	m.OTPRotations.Inc()
}

func (m *Metrics) RecordGateRejection(reason string) {
	if m == nil {
		return
	}
	m.GateRejections.WithLabelValues(reason).Inc()
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
