package middleware

import (
	"time"

	"github.com/alexander-sdk/core/transport"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters/histogram MetricsMiddleware records
// against, the same "construct once, pass by reference into a
// middleware/handler" shape e6qu-bleepstore/golang/internal/metrics uses
// for its HTTP handler instrumentation.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetryCount      *prometheus.CounterVec
}

// NewMetrics registers and returns a Metrics bundle against reg. Pass
// prometheus.DefaultRegisterer for the global registry, or a dedicated
// *prometheus.Registry in tests to avoid double-registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alexander_sdk",
			Name:      "requests_total",
			Help:      "Total number of SDK operation attempts, by service, operation, and outcome.",
		}, []string{"service", "operation", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "alexander_sdk",
			Name:      "request_duration_seconds",
			Help:      "Round-trip duration of one SDK operation attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		RetryCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alexander_sdk",
			Name:      "retries_total",
			Help:      "Total number of retried SDK operation attempts, by service and operation.",
		}, []string{"service", "operation"}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.RetryCount)
	return m
}

// MetricsMiddleware times each outbound/inbound round trip and records
// the outcome, the DOMAIN STACK's wiring of
// github.com/prometheus/client_golang into the pipeline (spec.md §4.5
// built-in middleware list; metrics are an addition beyond the distilled
// spec's named built-ins, per SPEC_FULL.md's DOMAIN STACK section).
func MetricsMiddleware(m *Metrics) Middleware {
	const startKey = "metrics.started"

	return Middleware{
		Name: "Metrics",
		OnRequest: func(req transport.Request, ctx Context) (transport.Request, error) {
			ctx.Attrs[startKey] = time.Now()
			return req, nil
		},
		OnResponse: func(resp *transport.Response, ctx Context) (*transport.Response, error) {
			outcome := "success"
			if resp.StatusCode >= 400 {
				outcome = "error"
			}
			m.RequestsTotal.WithLabelValues(ctx.ServiceID, ctx.OperationID, outcome).Inc()
			if started, ok := ctx.Attrs[startKey].(time.Time); ok {
				m.RequestDuration.WithLabelValues(ctx.ServiceID, ctx.OperationID).Observe(time.Since(started).Seconds())
			}
			return resp, nil
		},
	}
}
