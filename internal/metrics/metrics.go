// Package metrics provides standardized Prometheus metrics for
// request dispatch observability.
package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "router"
	subsystem = "dispatch"
)

// DispatchMetrics holds all dispatch-level Prometheus metrics.
type DispatchMetrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	HandlerFailuresTotal   *prometheus.CounterVec
	NotFoundTotal          *prometheus.CounterVec
}

var (
	dispatchMetricsInstance *DispatchMetrics
	dispatchMetricsOnce     sync.Once
)

// NewDispatchMetrics creates a new DispatchMetrics instance with all
// metrics registered via promauto (default global registry).
func NewDispatchMetrics() *DispatchMetrics {
	return &DispatchMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by route",
			},
			[]string{"route", "method", "status_code"},
		),
		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Dispatch duration including handler execution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method", "status_code"},
		),
		HandlerFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "handler_failures_total",
				Help:      "Total number of handler failures converted to 500 responses",
			},
			[]string{"route", "method"},
		),
		NotFoundTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "not_found_total",
				Help:      "Total number of requests that matched no route",
			},
			[]string{"method"},
		),
	}
}

// GetDispatchMetrics returns the singleton dispatch metrics instance.
func GetDispatchMetrics() *DispatchMetrics {
	dispatchMetricsOnce.Do(func() {
		dispatchMetricsInstance = NewDispatchMetrics()
	})
	return dispatchMetricsInstance
}

// MustRegister registers all dispatch metric collectors with the given
// Prometheus registry. Duplicate registration is silently ignored so
// that routers rebuilt on config reload do not panic.
func (m *DispatchMetrics) MustRegister(registry *prometheus.Registry) {
	for _, c := range m.collectors() {
		if err := registry.Register(c); err != nil {
			if !isAlreadyRegistered(err) {
				panic(err)
			}
		}
	}
}

// RecordRequest records a completed dispatch.
func (m *DispatchMetrics) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	sc := strconv.Itoa(statusCode)
	m.RequestsTotal.WithLabelValues(route, method, sc).Inc()
	m.RequestDurationSeconds.WithLabelValues(route, method, sc).Observe(duration.Seconds())
}

// RecordHandlerFailure records a handler failure for a route.
func (m *DispatchMetrics) RecordHandlerFailure(route, method string) {
	m.HandlerFailuresTotal.WithLabelValues(route, method).Inc()
}

// RecordNotFound records a request that matched no route.
func (m *DispatchMetrics) RecordNotFound(method string) {
	m.NotFoundTotal.WithLabelValues(method).Inc()
}

// collectors returns all metric collectors for registration.
func (m *DispatchMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.HandlerFailuresTotal,
		m.NotFoundTotal,
	}
}

// isAlreadyRegistered returns true if the error indicates the
// collector was already registered with the registry.
func isAlreadyRegistered(err error) bool {
	var are prometheus.AlreadyRegisteredError
	return errors.As(err, &are)
}
