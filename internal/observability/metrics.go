// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFailures counts rejected credentials and tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizrate_auth_failures_total",
		Help: "Total number of authentication failures by reason",
	}, []string{"reason"})

	// ReviewWrites counts review mutations by operation.
	ReviewWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizrate_review_writes_total",
		Help: "Total number of review create/update/delete operations",
	}, []string{"operation"})

	// RatingRecomputeLatency records how long the average-rating recompute
	// takes, including the surrounding transaction commit.
	RatingRecomputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bizrate_rating_recompute_latency_seconds",
		Help:    "Latency of business average-rating recomputation in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// VoteOutcomes counts vote requests by outcome (created, removed,
	// duplicate, missing).
	VoteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizrate_vote_outcomes_total",
		Help: "Total number of vote requests by outcome",
	}, []string{"outcome"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizrate_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveRecompute records the latency of one rating recompute.
func ObserveRecompute(start time.Time) {
	RatingRecomputeLatency.Observe(time.Since(start).Seconds())
}
