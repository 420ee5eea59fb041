// README: Prometheus metrics for ride lifecycle and HTTP traffic.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "rides_requested_total", Help: "Rides created",
	})
	RidesAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "rides_accepted_total", Help: "Successful ride acceptances",
	})
	AcceptConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "accept_conflicts_total", Help: "Acceptance attempts that lost the race or hit an unavailable ride/driver",
	})
	RideTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hail", Name: "ride_transitions_total", Help: "Ride status transitions by target status",
	}, []string{"to"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hail", Name: "http_requests_total", Help: "Total HTTP requests handled",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hail",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
