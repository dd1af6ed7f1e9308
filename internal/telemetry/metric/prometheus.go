// Package metric provides Prometheus metrics for docserve.
//
// It exposes connection, response, and byte counters in Prometheus format.
package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docserve"

// Rejection reasons for ConnectionsRejected.
const (
	ReasonRateLimit = "rate_limit"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Connection metrics
	ConnectionsTotal    prometheus.Counter
	ConnectionsActive   prometheus.Gauge
	ConnectionsRejected *prometheus.CounterVec

	// Response metrics
	ResponsesTotal  *prometheus.CounterVec
	ResponseBytes   prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the docserve metrics plus the Go runtime
// and process collectors. Each call returns an independent registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted TCP connections.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Connections currently being handled.",
		}),
		ConnectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_rejected_total",
			Help:      "Connections closed without a response, by reason.",
		}, []string{"reason"}),
		ResponsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Responses started, by status code.",
		}, []string{"code"}),
		ResponseBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_bytes_total",
			Help:      "Bytes written to clients, headers included.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from accept to close, by status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code"}),
	}

	r.reg.MustRegister(
		r.ConnectionsTotal,
		r.ConnectionsActive,
		r.ConnectionsRejected,
		r.ResponsesTotal,
		r.ResponseBytes,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveResponse records one finished request cycle. A zero code means the
// connection closed without a status line.
func (r *Registry) ObserveResponse(code int, bytes int64, elapsed time.Duration) {
	label := "none"
	if code > 0 {
		label = strconv.Itoa(code)
		r.ResponsesTotal.WithLabelValues(label).Inc()
	}
	if bytes > 0 {
		r.ResponseBytes.Add(float64(bytes))
	}
	r.RequestDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Gatherer exposes the underlying registry, e.g. for testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
