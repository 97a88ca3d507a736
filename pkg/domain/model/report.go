package model

import (
	"time"

	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

// Report is the full assessment tree of one situation
type Report struct {
	Situation   *Situation    `json:"situation"`
	Risks       []*RiskReport `json:"risks"`
	Summary     ReportSummary `json:"summary"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// RiskReport bundles a risk with everything derived from it
type RiskReport struct {
	Risk                *IdentifiedRisk           `json:"risk"`
	Evaluation          *RiskEvaluation           `json:"evaluation,omitempty"`
	Countermeasures     []*Countermeasure         `json:"countermeasures"`
	MetaCountermeasures []*MetaCountermeasureNode `json:"meta_countermeasures"`
}

// MetaCountermeasureNode is a meta-countermeasure with the countermeasures generated from it
type MetaCountermeasureNode struct {
	*MetaCountermeasure
	Countermeasures []*Countermeasure `json:"countermeasures"`
}

// ReportSummary counts risks by evaluation outcome
type ReportSummary struct {
	TotalRisks     int                     `json:"total_risks"`
	EvaluatedRisks int                     `json:"evaluated_risks"`
	ByLevel        map[types.RiskLevel]int `json:"by_level"`
}

// Summarize recomputes the summary from the risk list
func (r *Report) Summarize() {
	s := ReportSummary{
		TotalRisks: len(r.Risks),
		ByLevel:    make(map[types.RiskLevel]int),
	}
	for _, lvl := range types.AllRiskLevels() {
		s.ByLevel[lvl] = 0
	}
	for _, rr := range r.Risks {
		if rr.Evaluation == nil {
			continue
		}
		s.EvaluatedRisks++
		s.ByLevel[rr.Evaluation.RiskLevel]++
	}
	r.Summary = s
}
