// Package metrics 定义了服务暴露给 Prometheus 的指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompletionOutcomes 按结果统计生成管线：cache / remote / fallback / failure / invalid。
	CompletionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iris",
		Name:      "completion_outcomes_total",
		Help:      "Completion pipeline results by outcome.",
	}, []string{"outcome"})

	// RemoteLatency 记录远端模型调用耗时。
	RemoteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "iris",
		Name:      "remote_completion_seconds",
		Help:      "Latency of remote completion calls.",
		Buckets:   prometheus.DefBuckets,
	})

	// CacheSize 是学习缓存当前条目数。
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "iris",
		Name:      "response_cache_entries",
		Help:      "Number of entries in the learned-response cache.",
	})

	// HTTPRequestDuration 由 gin 中间件记录。
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "iris",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
