// Package metrics exposes Prometheus collectors for auth and CRM traffic.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "login_app"

type Metrics struct {
	registry     *prometheus.Registry
	authAttempts *prometheus.CounterVec
	crmCalls     *prometheus.CounterVec
	crmLatency   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Register and login attempts by outcome.",
		}, []string{"operation", "result"}),
		crmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_calls_total",
			Help:      "Calls made to the CRM by operation and outcome.",
		}, []string{"operation", "result"}),
		crmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crm_call_duration_seconds",
			Help:      "CRM call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.authAttempts,
		m.crmCalls,
		m.crmLatency,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAuth(operation, result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObserveCRM(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.crmCalls.WithLabelValues(operation, result).Inc()
	m.crmLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
