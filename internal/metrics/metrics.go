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
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_booking_requests_total",
			Help: "Booking submissions by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_booking_cancellations_total",
			Help: "Cancellation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ReviewsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_reviews_submitted_total",
			Help: "Reviews submitted by source",
		},
		[]string{"source"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_upstream_request_duration_seconds",
			Help:    "Catalog API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	ActiveScreens = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_screens",
			Help: "Number of cached screen states",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBookingRequest counts a submission: created, slot_conflict or failed.
func RecordBookingRequest(outcome string) {
	BookingRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordCancellation(outcome string) {
	BookingCancellationsTotal.WithLabelValues(outcome).Inc()
}

func RecordReview(source string) {
	ReviewsSubmittedTotal.WithLabelValues(source).Inc()
}

func RecordUpstreamRequest(operation, status string, duration float64) {
	UpstreamRequestDuration.WithLabelValues(operation, status).Observe(duration)
}

func SetActiveScreens(n int) {
	ActiveScreens.Set(float64(n))
}
