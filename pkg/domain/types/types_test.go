package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

func TestGuidewordCategory_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.GuidewordCategory
		wantErr bool
	}{
		{"data", "Data", types.GuidewordCategoryData, false},
		{"model", "Model", types.GuidewordCategoryModel, false},
		{"operation", "Operation", types.GuidewordCategoryOperation, false},
		{"lowercase is rejected", "data", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseGuidewordCategory(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestConfidence_Score(t *testing.T) {
	tests := []struct {
		label types.Confidence
		want  float64
	}{
		{types.ConfidenceHigh, 0.9},
		{types.ConfidenceMedium, 0.7},
		{types.ConfidenceLow, 0.5},
		{types.Confidence("Certain"), 0.7},
		{types.Confidence("high"), 0.7},
		{types.Confidence(""), 0.7},
		{types.Confidence("高"), 0.9},
		{types.Confidence("低"), 0.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			gt.Value(t, tt.label.Score()).Equal(tt.want)
		})
	}
}

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  types.RiskLevel
	}{
		{"maximum", 5.0, types.RiskLevelHigh},
		{"high boundary", 3.5, types.RiskLevelHigh},
		{"just below high", 3.49, types.RiskLevelMedium},
		{"medium boundary", 2.0, types.RiskLevelMedium},
		{"just below medium", 1.99, types.RiskLevelLow},
		{"minimum", 0.04, types.RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.RiskLevelFromScore(tt.score)).Equal(tt.want)
		})
	}
}

func TestRiskLevel_AtLeast(t *testing.T) {
	gt.Bool(t, types.RiskLevelHigh.AtLeast(types.RiskLevelMedium)).True()
	gt.Bool(t, types.RiskLevelMedium.AtLeast(types.RiskLevelMedium)).True()
	gt.Bool(t, types.RiskLevelLow.AtLeast(types.RiskLevelHigh)).False()

	_, err := types.ParseRiskLevel("Critical")
	gt.Value(t, err).NotNil()
}

func TestLevel_Weight(t *testing.T) {
	gt.Value(t, types.LevelHigh.Weight()).Equal(3)
	gt.Value(t, types.LevelMedium.Weight()).Equal(2)
	gt.Value(t, types.LevelLow.Weight()).Equal(1)
	gt.Value(t, types.Level("Unknown").Weight()).Equal(0)
	gt.Bool(t, types.Level("Unknown").IsValid()).False()
}

func TestTargetAxis_Order(t *testing.T) {
	axes := types.AllTargetAxes()
	gt.Array(t, axes).Length(3)
	gt.Value(t, axes[0]).Equal(types.TargetAxisFrequencyReduction)
	gt.Value(t, axes[1]).Equal(types.TargetAxisAvoidabilityImprovement)
	gt.Value(t, axes[2]).Equal(types.TargetAxisSeverityReduction)
	gt.Bool(t, types.TargetAxis("Other").IsValid()).False()
}
