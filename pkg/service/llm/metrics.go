package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// callTotal counts LLM calls by provider and result
	callTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskscope_llm_calls_total",
		Help: "Total LLM calls by provider and result",
	}, []string{"provider", "result"})

	// callDuration tracks LLM call latency
	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riskscope_llm_call_duration_seconds",
		Help:    "LLM call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2min
	}, []string{"provider"})
)
