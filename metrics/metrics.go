package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printbuddy",
			Name:      "requests_total",
			Help:      "HTTP requests by route, status and method",
		},
		[]string{"route", "status", "method"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printbuddy",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route and status",
			Buckets: []float64{
				0.01, 0.02, 0.05, 0.1, 0.2,
				0.3, 0.5, 0.8, 1.2, 2, 3, 5,
			},
		},
		[]string{"route", "status"},
	)

	PaymentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printbuddy",
			Name:      "payment_outcomes_total",
			Help:      "Terminal payment attempt outcomes",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDuration, PaymentOutcomes)
}

func IncRequest(route, status, method string) {
	RequestsTotal.WithLabelValues(route, status, method).Inc()
}

func ObserveDuration(route, status string, seconds float64) {
	RequestDuration.WithLabelValues(route, status).Observe(seconds)
}

func IncPaymentOutcome(outcome string) {
	PaymentOutcomes.WithLabelValues(outcome).Inc()
}
