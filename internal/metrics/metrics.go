package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Replies by kind: sentinel, redirect, crisis, normal.
	ChatReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total chat replies by reply kind",
		},
		[]string{"kind"},
	)

	// Degraded fallback executions.
	PipelineFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_fallback_total",
			Help: "Total degraded synchronous pipeline executions",
		},
	)

	// LLM call latency (milliseconds).
	LLMCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_latency_ms",
			Help:    "LLM call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	// Write queue state.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "write_queue_depth",
			Help: "Pending tasks in the write queue",
		},
	)

	QueueTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "write_queue_tasks_total",
			Help: "Write queue tasks by result: submitted, processed, failed, dropped",
		},
		[]string{"result"},
	)
)

// RecordLLMLatency records one LLM round trip.
func RecordLLMLatency(status string, d time.Duration) {
	LLMCallLatency.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}

// IncReply counts a returned reply by kind.
func IncReply(kind string) {
	ChatReplies.WithLabelValues(kind).Inc()
}
