// Package metrics holds the Prometheus collectors of the server and the job.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveRequests      prometheus.Gauge
	AuthAttempts        *prometheus.CounterVec
	AccountsDeactivated prometheus.Counter
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gophnotes",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gophnotes",
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),

		ActiveRequests: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "gophnotes",
				Name:      "http_active_requests",
				Help:      "Current number of active HTTP requests",
			},
		),

		// status: success/failure, type: login/logout
		AuthAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gophnotes",
				Name:      "auth_attempts_total",
				Help:      "Total number of authentication attempts",
			},
			[]string{"status", "type"},
		),

		AccountsDeactivated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "gophnotes",
				Name:      "accounts_deactivated_total",
				Help:      "Accounts marked inactive by the deactivation job",
			},
		),
	}
}

func (m *Metrics) TrackAuthAttempt(status, authType string) {
	m.AuthAttempts.WithLabelValues(status, authType).Inc()
}
