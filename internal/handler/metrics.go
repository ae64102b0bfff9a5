package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	paymentsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "kafka_consumer",
			Name:      "payments_processed_total",
			Help:      "Total number of successfully reconciled invoice payment messages",
		},
	)

	paymentsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "kafka_consumer",
			Name:      "payments_failed_total",
			Help:      "Total number of failed invoice payment messages",
		},
	)

	paymentsDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "kafka_consumer",
			Name:      "payments_dlq_total",
			Help:      "Total number of invoice payment messages written to DLQ",
		},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)

	paymentProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "honey_biz",
			Subsystem: "kafka_consumer",
			Name:      "payment_processing_duration_seconds",
			Help:      "Histogram of invoice payment processing durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "http",
			Name:      "submissions_total",
			Help:      "Total number of stored customer submissions by kind",
		},
		[]string{"kind"},
	)

	checkoutRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "honey_biz",
			Subsystem: "http",
			Name:      "checkout_requests_in_progress",
			Help:      "Number of checkout process requests in flight",
		},
	)

	integrationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "honey_biz",
			Subsystem: "http",
			Name:      "integration_events_total",
			Help:      "Invoicing connect and disconnect events by result",
		},
		[]string{"event", "result"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		paymentsProcessed,
		paymentsFailed,
		paymentsDLQ,
		commitErrors,
		paymentProcessingDuration,

		submissionsTotal,
		checkoutRequestsInProgress,
		integrationEvents,
	)
}
