package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "turing"}, registry)

var (
	// Latency buckets in milliseconds. Chat completions dominate the tail.
	latencyBuckets = []float64{
		10, 25, 50,
		100, 250, 500,
		1000, 2500, 5000,
		10000, 30000, 60000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "turing_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turing_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	UpstreamLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turing_upstream_latency_ms",
			Help:    "Latency of hosted embedding and chat calls in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"kind", "provider"},
	)

	RetrievalTopScore = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "turing_retrieval_top_score",
			Help:    "Cosine similarity of the best matching document",
			Buckets: prometheus.LinearBuckets(-1, 0.1, 21),
		},
	)

	RetrievalSkippedDocuments = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "turing_retrieval_skipped_documents_total",
			Help: "Documents skipped because their embedding dimension differs from the query",
		},
	)

	RateLimitedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "turing_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	KnowledgeReloadTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "turing_knowledge_reload_total",
			Help: "Knowledge base invalidations by trigger",
		},
		[]string{"source"},
	)
)

type MetricsConfig struct {
	EnableLatency bool // request and upstream latency histograms
	EnableScores  bool // retrieval score distribution
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
		EnableScores:  true,
	}
}

// Config stays zero, so optional series are skipped, until Initialize runs.
var Config MetricsConfig

var registerCollectors sync.Once

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registerCollectors.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	})

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func Gatherer() prometheus.Gatherer {
	return registry
}
