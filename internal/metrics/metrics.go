package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcome labels.
const (
	OutcomePlaced            = "placed"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

// CheckoutMetrics is nil-safe: a nil receiver records nothing.
type CheckoutMetrics struct {
	Outcomes  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Retries   prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "checkout_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookstore",
		Name:      "checkout_duration_ms",
		Help:      "Checkout latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"outcome"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "checkout_retries_total",
		Help:      "Checkout units of work retried after a transient failure.",
	})

	reg.MustRegister(outcomes, latency, retries)
	return &CheckoutMetrics{Outcomes: outcomes, LatencyMS: latency, Retries: retries}
}

func (m *CheckoutMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
	m.LatencyMS.WithLabelValues(outcome).Observe(float64(elapsed.Milliseconds()))
}

func (m *CheckoutMetrics) Retried() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
