package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes for the checkout and order workflows.
type CheckoutMetrics struct {
	checkouts    *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	paymentLinks *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by source and target state.",
	}, []string{"from", "to"})
	paymentLinks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_link_requests_total",
		Help: "Payment link requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(checkouts, transitions, paymentLinks)
	return &CheckoutMetrics{
		checkouts:    checkouts,
		transitions:  transitions,
		paymentLinks: paymentLinks,
	}
}

// IncCheckout increments the checkout counter for an outcome label.
func (c *CheckoutMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTransition increments the transition counter for a from/to pair.
func (c *CheckoutMetrics) IncTransition(from, to string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncPaymentLink increments the payment link counter for an outcome label.
func (c *CheckoutMetrics) IncPaymentLink(outcome string) {
	if c == nil || c.paymentLinks == nil {
		return
	}
	c.paymentLinks.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
