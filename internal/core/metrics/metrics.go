package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a Prometheus registry with the standard collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics holds the business metrics for the aggregation platform.
type AppMetrics struct {
	// TrackingEventsTotal counts tracking event applications by outcome
	// (applied, duplicate, unknown_status, carrier_mismatch, same_bucket, error).
	TrackingEventsTotal *prometheus.CounterVec
	// SweepOrdersTotal counts per-order sweep results (ok, failed, locked).
	SweepOrdersTotal *prometheus.CounterVec
	// QuotesComputedTotal counts quotes returned to callers.
	QuotesComputedTotal prometheus.Counter
	// CarrierExclusionsTotal counts carriers excluded from quoting, by carrier and reason.
	CarrierExclusionsTotal *prometheus.CounterVec
}

// NewAppMetrics registers and returns the business metrics.
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		TrackingEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_events_total",
			Help: "Tracking event applications by outcome.",
		}, []string{"outcome"}),
		SweepOrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweep_orders_total",
			Help: "Per-order tracking sweep results.",
		}, []string{"result"}),
		QuotesComputedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotes_computed_total",
			Help: "Total quotes returned by the rate calculator.",
		}),
		CarrierExclusionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carrier_exclusions_total",
			Help: "Carriers excluded from a quote computation, by reason.",
		}, []string{"carrier", "reason"}),
	}

	reg.MustRegister(
		m.TrackingEventsTotal,
		m.SweepOrdersTotal,
		m.QuotesComputedTotal,
		m.CarrierExclusionsTotal,
	)

	return m
}
