package model

import (
	"time"

	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

const (
	MinAxisScore = 1
	MaxAxisScore = 5
)

// RiskEvaluation holds the three axis scores of a risk and the values derived from them
type RiskEvaluation struct {
	ID                    EvaluationID    `json:"evaluation_id"`
	RiskID                RiskID          `json:"risk_id"`
	SeverityScore         int             `json:"severity_score"`
	SeverityRationale     string          `json:"severity_rationale"`
	FrequencyScore        int             `json:"frequency_score"`
	FrequencyRationale    string          `json:"frequency_rationale"`
	AvoidabilityScore     int             `json:"avoidability_score"`
	AvoidabilityRationale string          `json:"avoidability_rationale"`
	RiskLevel             types.RiskLevel `json:"risk_level"`
	NormalizedScore       float64         `json:"normalized_score"`
	EvaluatedAt           time.Time       `json:"evaluated_at"`
}

// AxisScore is a single axis score with the LLM's rationale
type AxisScore struct {
	Score     int
	Rationale string
}

// ValidAxisScore reports whether s is within the 1 to 5 scale
func ValidAxisScore(s int) bool {
	return s >= MinAxisScore && s <= MaxAxisScore
}

// ComputeRiskScore derives the normalized score and level from the three axes.
// The (raw/5)*5 step is kept as is so stored values match existing records.
func ComputeRiskScore(severity, frequency, avoidability int) (float64, types.RiskLevel) {
	raw := float64(severity*frequency*avoidability) / 25
	normalized := (raw / 5) * 5
	return normalized, types.RiskLevelFromScore(normalized)
}

// NewRiskEvaluation assembles an evaluation from fully scored axes
func NewRiskEvaluation(riskID RiskID, severity, frequency, avoidability AxisScore) *RiskEvaluation {
	normalized, level := ComputeRiskScore(severity.Score, frequency.Score, avoidability.Score)
	return &RiskEvaluation{
		ID:                    NewEvaluationID(),
		RiskID:                riskID,
		SeverityScore:         severity.Score,
		SeverityRationale:     severity.Rationale,
		FrequencyScore:        frequency.Score,
		FrequencyRationale:    frequency.Rationale,
		AvoidabilityScore:     avoidability.Score,
		AvoidabilityRationale: avoidability.Rationale,
		RiskLevel:             level,
		NormalizedScore:       normalized,
		EvaluatedAt:           time.Now().UTC(),
	}
}

// AxisScoreFor returns the evaluation's score for the axis a meta-countermeasure targets
func (e *RiskEvaluation) AxisScoreFor(axis types.TargetAxis) int {
	switch axis {
	case types.TargetAxisFrequencyReduction:
		return e.FrequencyScore
	case types.TargetAxisAvoidabilityImprovement:
		return e.AvoidabilityScore
	case types.TargetAxisSeverityReduction:
		return e.SeverityScore
	default:
		return 0
	}
}
