package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskscope_stage_runs_total",
		Help: "Pipeline stage invocations by stage and result.",
	}, []string{"stage", "result"})

	stageItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskscope_stage_items_total",
		Help: "Records produced by pipeline stages.",
	}, []string{"stage"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riskscope_stage_duration_seconds",
		Help:    "Pipeline stage latency including LLM calls and persistence.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"stage"})
)

const (
	stageIdentification     = "identification"
	stageEvaluation         = "evaluation"
	stageCountermeasure     = "countermeasure"
	stageMetaCountermeasure = "meta_countermeasure"
)

// observeStage records one stage run. Call it deferred with a pointer to the
// named error result so the outcome is known.
func observeStage(stage string, started time.Time, items *int, errp *error) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	if errp != nil && *errp != nil {
		stageRuns.WithLabelValues(stage, "error").Inc()
		return
	}
	stageRuns.WithLabelValues(stage, "ok").Inc()
	if items != nil {
		stageItems.WithLabelValues(stage).Add(float64(*items))
	}
}
