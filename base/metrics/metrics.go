package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feral"

var (
	// GenerationAttempts 生成器采样尝试次数, result: accepted | failed | duplicate
	GenerationAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generator",
		Name:      "attempts_total",
		Help:      "Sampling attempts made by the trait combinator.",
	}, []string{"result"})

	// GenerationRuns 生成任务数量, status: complete | partial | error
	GenerationRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generator",
		Name:      "runs_total",
		Help:      "Collection generation runs by outcome.",
	}, []string{"status"})

	GenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "generator",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a collection generation run.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// WalletScans 钱包评分请求, status: ok | error
	WalletScans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reputation",
		Name:      "scans_total",
		Help:      "Wallet reputation computations by outcome.",
	}, []string{"status"})

	IndexerPages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reputation",
		Name:      "indexer_pages_total",
		Help:      "Transaction pages fetched from the indexer.",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		GenerationAttempts,
		GenerationRuns,
		GenerationDuration,
		WalletScans,
		IndexerPages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
