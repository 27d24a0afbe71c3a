package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equipbook",
			Name:      "booking_operations_total",
			Help:      "Booking lifecycle operations by name and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	availabilityRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "equipbook",
			Name:      "availability_rejections_total",
			Help:      "Booking requests rejected for insufficient availability.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingOperations, availabilityRejections)
	})
}

// ObserveOperation records a lifecycle operation outcome.
func ObserveOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	bookingOperations.WithLabelValues(operation, outcome).Inc()
}

// IncAvailabilityRejection counts a request turned away by the
// availability check.
func IncAvailabilityRejection() {
	availabilityRejections.Inc()
}
