package rpc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletd",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "JSON-RPC requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "walletd",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "JSON-RPC handler latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"method"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observe(method, outcome string, d time.Duration) {
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// metricMethod keeps label cardinality bounded: unknown names share one label.
func metricMethod(table map[string]handler, method string) string {
	if _, ok := table[method]; ok {
		return method
	}
	return "unknown"
}

func outcomeLabel(code int) string {
	switch code {
	case CodeNotFound:
		return "not_found"
	case CodeLedgerUnavailable:
		return "ledger_unavailable"
	case CodeInconsistentState:
		return "inconsistent_state"
	case CodeInvalidParams:
		return "invalid_params"
	case CodeMethodNotFound:
		return "method_not_found"
	default:
		return "error"
	}
}
