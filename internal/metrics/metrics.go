// Package metrics exposes Prometheus counters for order operations.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	payouts     *prometheus.CounterVec
	cacheInval  prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Order status change requests by outcome code.",
		}, []string{"to", "code"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "orders",
			Name:      "partner_payouts_total",
			Help:      "Per-order partner payouts by partner type and outcome code.",
		}, []string{"partner_type", "code"}),
		cacheInval: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "orders",
			Name:      "status_cache_invalidations_total",
			Help:      "Status registry cache invalidations.",
		}),
	}
	reg.MustRegister(m.transitions, m.payouts, m.cacheInval,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) ObserveTransition(to, code string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, code).Inc()
}

func (m *Metrics) ObservePayout(partnerType, code string) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(partnerType, code).Inc()
}

func (m *Metrics) ObserveInvalidation() {
	if m == nil {
		return
	}
	m.cacheInval.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
