package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Normalization metrics
	MessagesNormalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_messages_normalized_total",
			Help: "Total number of raw messages normalized",
		},
		[]string{"source", "sentiment"},
	)

	NormalizeFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_normalize_fallbacks_total",
			Help: "Fields resolved through a documented default",
		},
		[]string{"field"}, // field: timestamp|sentiment
	)

	// Aggregation metrics
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_aggregation_duration_seconds",
			Help:    "Time spent aggregating one batch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	AggregatedMessages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_aggregation_batch_size",
			Help:    "Messages per aggregated batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Cache metrics
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_requests_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"}, // result: hit|miss|expired|refresh
	)

	CacheStoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_store_errors_total",
			Help: "Result cache backend failures",
		},
		[]string{"op"}, // op: load|save|delete|lock
	)

	// Summarizer metrics
	SummarizerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_summarizer_calls_total",
			Help: "Insight summarizer invocations",
		},
		[]string{"status"}, // status: success|error|unavailable|circuit_open
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_worker_duration_seconds",
			Help:    "Time spent in one worker iteration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"worker"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(MessagesNormalized)
	prometheus.MustRegister(NormalizeFallbacks)

	prometheus.MustRegister(AggregationDuration)
	prometheus.MustRegister(AggregatedMessages)

	prometheus.MustRegister(CacheRequests)
	prometheus.MustRegister(CacheStoreErrors)

	prometheus.MustRegister(SummarizerCalls)

	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAggregation records one aggregation pass
func RecordAggregation(duration time.Duration, messages int) {
	AggregationDuration.Observe(duration.Seconds())
	AggregatedMessages.Observe(float64(messages))
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}
