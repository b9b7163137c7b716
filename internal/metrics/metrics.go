package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Emails handed to the SMTP transport, by final outcome",
		},
		[]string{"status"},
	)

	notificationAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_notification_attempts",
			Help:    "Attempts needed per email",
			Buckets: []float64{1, 2, 3},
		},
	)
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordOrderOperation compte une opération sur les commandes (create, cancel, update...).
func RecordOrderOperation(operation string, success bool) {
	orderOperations.WithLabelValues(operation, status(success)).Inc()
}

func RecordNotification(success bool, attempts int) {
	notifications.WithLabelValues(status(success)).Inc()
	notificationAttempts.Observe(float64(attempts))
}
