// Package metrics owns the prometheus collectors for inference calls and the
// dashboard HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inference call outcomes
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeServiceError   = "service_error"
)

// Registry groups the collectors on a private prometheus registry so tests
// and multiple binaries never collide on the global one.
type Registry struct {
	reg *prometheus.Registry

	InferenceCalls   *prometheus.CounterVec
	InferenceLatency *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New builds a registry with every collector registered
func New(namespace string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		InferenceCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_calls_total",
			Help:      "Remote inference calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		InferenceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_call_duration_seconds",
			Help:      "Remote inference call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveInference records one inference call. Safe on a nil registry.
func (r *Registry) ObserveInference(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.InferenceCalls.WithLabelValues(endpoint, outcome).Inc()
	r.InferenceLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request. Safe on a nil registry.
func (r *Registry) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Gatherer exposes the underlying registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
