package metrics

import "github.com/prometheus/client_golang/prometheus"

// Payment outcomes reported by the checkout and callback flows.
const (
	PaymentOutcomeCheckoutStarted = "checkout_started"
	PaymentOutcomeCheckoutFailed  = "checkout_failed"
	PaymentOutcomeSucceeded       = "succeeded"
	PaymentOutcomeFailed          = "failed"
	PaymentOutcomeRejected        = "rejected"
	PaymentOutcomeExpired         = "expired"
)

// BusinessMetrics counts upgrade-related domain events.
type BusinessMetrics struct {
	payments  *prometheus.CounterVec
	vouchers  *prometheus.CounterVec
	rateLimit prometheus.Counter
}

// NewBusinessMetrics registers the domain counters on the provided registerer.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		return &BusinessMetrics{}
	}
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment lifecycle events by outcome.",
	}, []string{"outcome"})
	vouchers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vouchers_redeemed_total",
		Help: "Vouchers redeemed by granted tier.",
	}, []string{"tier"})
	rateLimit := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_blocked_total",
		Help: "Requests rejected by the API rate limiter.",
	})
	reg.MustRegister(payments, vouchers, rateLimit)
	return &BusinessMetrics{payments: payments, vouchers: vouchers, rateLimit: rateLimit}
}

func (m *BusinessMetrics) IncPayment(outcome string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddPayments adds n events at once (cron reaper batches).
func (m *BusinessMetrics) AddPayments(outcome string, n int) {
	if m == nil || m.payments == nil || n <= 0 {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func (m *BusinessMetrics) IncVoucherRedeemed(tier string) {
	if m == nil || m.vouchers == nil {
		return
	}
	m.vouchers.WithLabelValues(normalizeLabel(tier)).Inc()
}

func (m *BusinessMetrics) IncRateLimited() {
	if m == nil || m.rateLimit == nil {
		return
	}
	m.rateLimit.Inc()
}
