// Package metrics exposes Prometheus instrumentation for the writer
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the answer writer.
type Metrics struct {
	AnswersTotal          *prometheus.CounterVec
	ExtractFallbacksTotal prometheus.Counter
	VariablesDroppedTotal prometheus.Counter
	SummarizeLatency      *prometheus.HistogramVec
	LLMRequestsTotal      *prometheus.CounterVec
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
}

// New creates and registers the writer metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnswersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "writer_answers_total",
				Help: "Total number of structured answers assembled",
			},
			[]string{"strategy"},
		),
		ExtractFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "writer_extract_fallbacks_total",
				Help: "Model outputs that failed JSON extraction and fell back to the empty answer",
			},
		),
		VariablesDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "writer_variables_dropped_total",
				Help: "Requested variables dropped by capability filtering",
			},
		),
		SummarizeLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "writer_summarize_seconds",
				Help:    "Summarization latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "writer_llm_requests_total",
				Help: "Total number of text-generation requests",
			},
			[]string{"backend", "status"},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "writer_cache_hits_total",
				Help: "Answer cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "writer_cache_misses_total",
				Help: "Answer cache misses",
			},
		),
	}
}
