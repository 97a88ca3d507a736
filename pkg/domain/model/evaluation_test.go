package model_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

func TestComputeRiskScore(t *testing.T) {
	tests := []struct {
		name                              string
		severity, frequency, avoidability int
		wantScore                         float64
		wantLevel                         types.RiskLevel
	}{
		{"all five", 5, 5, 5, 5.0, types.RiskLevelHigh},
		{"all one", 1, 1, 1, 0.04, types.RiskLevelLow},
		{"all three", 3, 3, 3, 1.08, types.RiskLevelLow},
		{"all four", 4, 4, 4, 2.56, types.RiskLevelMedium},
		{"night pedestrian scenario", 5, 2, 3, 1.2, types.RiskLevelLow},
		{"exactly medium", 5, 5, 2, 2.0, types.RiskLevelMedium},
		{"above high", 5, 5, 4, 4.0, types.RiskLevelHigh},
		{"between medium and high", 5, 4, 4, 3.2, types.RiskLevelMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := model.ComputeRiskScore(tt.severity, tt.frequency, tt.avoidability)
			gt.Bool(t, math.Abs(score-tt.wantScore) < 1e-9).True()
			gt.Value(t, level).Equal(tt.wantLevel)
		})
	}
}

func TestNewRiskEvaluation(t *testing.T) {
	riskID := model.NewRiskID()
	eval := model.NewRiskEvaluation(riskID,
		model.AxisScore{Score: 4, Rationale: "minor injury"},
		model.AxisScore{Score: 4, Rationale: "frequent"},
		model.AxisScore{Score: 4, Rationale: "hard to avoid"},
	)

	gt.Value(t, eval.RiskID).Equal(riskID)
	gt.String(t, string(eval.ID)).NotEqual("")
	gt.Value(t, eval.RiskLevel).Equal(types.RiskLevelMedium)
	gt.Value(t, eval.SeverityRationale).Equal("minor injury")
	gt.Bool(t, eval.EvaluatedAt.IsZero()).False()

	gt.Value(t, eval.AxisScoreFor(types.TargetAxisFrequencyReduction)).Equal(4)
	gt.Value(t, eval.AxisScoreFor(types.TargetAxis("Other"))).Equal(0)
}

func TestValidAxisScore(t *testing.T) {
	gt.Bool(t, model.ValidAxisScore(0)).False()
	gt.Bool(t, model.ValidAxisScore(1)).True()
	gt.Bool(t, model.ValidAxisScore(5)).True()
	gt.Bool(t, model.ValidAxisScore(6)).False()
}
