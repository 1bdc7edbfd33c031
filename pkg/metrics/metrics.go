package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moments",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moments",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	graphqlOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moments",
		Name:      "graphql_operations_total",
		Help:      "GraphQL operations by name and outcome.",
	}, []string{"operation", "outcome"})

	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moments",
		Name:      "relation_toggles_total",
		Help:      "Toggle-relation flips by relation and resulting state.",
	}, []string{"relation", "state"})
)

func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func ObserveGraphQL(operation string, failed bool) {
	if operation == "" {
		operation = "anonymous"
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	graphqlOps.WithLabelValues(operation, outcome).Inc()
}

func ObserveToggle(relation string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	toggles.WithLabelValues(relation, state).Inc()
}
