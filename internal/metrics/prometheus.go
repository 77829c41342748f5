package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iliyamo/seat-allocation/internal/apperror"
)

const namespace = "seatalloc"

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AllocationOpsTotal counts assign and release attempts by outcome.  The
	// outcome is "ok" or the error kind, so contention shows up as
	// outcome="conflict".
	AllocationOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocation",
		Name:      "operations_total",
		Help:      "Seat allocation operations by outcome",
	}, []string{"op", "outcome"})

	// DefaultShiftsCreatedTotal counts default shifts inserted by
	// self-seeding branches.
	DefaultShiftsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shift",
		Name:      "defaults_created_total",
		Help:      "Default shifts created when a branch lists its shifts",
	})
)

// ObserveAllocation records the outcome of an allocation operation.
func ObserveAllocation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperror.KindOf(err))
	}
	AllocationOpsTotal.WithLabelValues(op, outcome).Inc()
}
