package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the order placement pipeline.
type CheckoutMetrics struct {
	ordersPlaced      *prometheus.CounterVec
	orderTotal        prometheus.Histogram
	promoApplications *prometheus.CounterVec
	sideEffectFailure *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully created, labelled by delivery timing.",
	}, []string{"timing"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Order grand totals in PKR.",
		Buckets: []float64{250, 500, 1000, 2000, 5000, 10000},
	})
	promoApplications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_applications_total",
		Help: "Promo evaluation outcomes.",
	}, []string{"outcome"})
	sideEffectFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_side_effect_failures_total",
		Help: "Best-effort post-order writes that failed, by step.",
	}, []string{"step"})
	reg.MustRegister(ordersPlaced, orderTotal, promoApplications, sideEffectFailure)
	return &CheckoutMetrics{
		ordersPlaced:      ordersPlaced,
		orderTotal:        orderTotal,
		promoApplications: promoApplications,
		sideEffectFailure: sideEffectFailure,
	}
}

// ObserveOrderPlaced records a successful order.
func (m *CheckoutMetrics) ObserveOrderPlaced(timing string, total int) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(timing)).Inc()
	m.orderTotal.Observe(float64(total))
}

// IncPromoOutcome counts one promo evaluation result (applied, not_found,
// not_applicable).
func (m *CheckoutMetrics) IncPromoOutcome(outcome string) {
	if m == nil || m.promoApplications == nil {
		return
	}
	m.promoApplications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSideEffectFailure counts a swallowed fan-out failure for the named step.
func (m *CheckoutMetrics) IncSideEffectFailure(step string) {
	if m == nil || m.sideEffectFailure == nil {
		return
	}
	m.sideEffectFailure.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
