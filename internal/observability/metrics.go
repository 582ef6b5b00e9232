// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devin_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devin_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RepliesCreated counts successfully created replies.
	RepliesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devin_replies_created_total",
		Help: "Total number of replies created",
	})

	// RepliesDeleted counts successfully deleted replies.
	RepliesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devin_replies_deleted_total",
		Help: "Total number of replies deleted",
	})

	// LikesToggled counts like toggles by resulting action (liked/unliked).
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devin_likes_toggled_total",
		Help: "Total number of reply like toggles by resulting action",
	}, []string{"action"})

	// ExpAdjustments counts experience score adjustments by event type.
	ExpAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devin_exp_adjustments_total",
		Help: "Total number of experience score adjustments by event type",
	}, []string{"event"})

	// ReplyPageCache counts reply page cache lookups by outcome (hit/miss).
	ReplyPageCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devin_reply_page_cache_total",
		Help: "Reply page cache lookups by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
