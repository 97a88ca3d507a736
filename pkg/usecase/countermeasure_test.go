package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
)

const countermeasureReply = `{"countermeasures": [
	{"strategy_type": "FrequencyReduction", "description": "retrain with night data", "priority": 3, "feasibility": "Low", "implementation_timeline": "Long term"},
	{"strategy_type": "AvoidabilityImprovement", "description": "thermal camera fallback", "priority": 5, "feasibility": "Medium", "implementation_timeline": "Mid term", "expected_effect": "detect in darkness"},
	{"strategy_type": "SeverityReduction", "description": "cap speed at night", "priority": 3, "feasibility": "High", "implementation_timeline": "Short term"}
]}`

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name    string
		s, f, a int
		want    types.StrategyType
	}{
		{"severity dominates", 4, 5, 5, types.StrategySeverityReduction},
		{"frequency next", 3, 4, 5, types.StrategyFrequencyReduction},
		{"avoidability last", 3, 3, 4, types.StrategyAvoidabilityImprovement},
		{"balanced", 3, 3, 3, types.StrategyBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &model.RiskEvaluation{SeverityScore: tt.s, FrequencyScore: tt.f, AvoidabilityScore: tt.a}
			gt.Value(t, usecase.SelectStrategy(e)).Equal(tt.want)
		})
	}
}

func TestPrioritizeCountermeasures(t *testing.T) {
	build := func() []*model.Countermeasure {
		return []*model.Countermeasure{
			{Description: "p3-low", Priority: 3, Feasibility: types.LevelLow},
			{Description: "p5-medium", Priority: 5, Feasibility: types.LevelMedium},
			{Description: "p3-high", Priority: 3, Feasibility: types.LevelHigh},
			{Description: "p3-unknown", Priority: 3, Feasibility: "Unclear"},
		}
	}
	names := func(ms []*model.Countermeasure) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Description
		}
		return out
	}

	t.Run("high risk breaks ties by feasibility", func(t *testing.T) {
		got := usecase.PrioritizeCountermeasures(build(), types.RiskLevelHigh)
		gt.Value(t, names(got)).Equal([]string{"p5-medium", "p3-high", "p3-low", "p3-unknown"})
	})

	t.Run("other levels sort by priority only", func(t *testing.T) {
		got := usecase.PrioritizeCountermeasures(build(), types.RiskLevelMedium)
		gt.Value(t, names(got)).Equal([]string{"p5-medium", "p3-low", "p3-high", "p3-unknown"})
	})
}

func TestParseCountermeasures_RequiredKeys(t *testing.T) {
	for _, key := range []string{"strategy_type", "description", "priority", "feasibility", "implementation_timeline"} {
		t.Run(key, func(t *testing.T) {
			item := map[string]string{
				"strategy_type":           `"SeverityReduction"`,
				"description":             `"d"`,
				"priority":                `2`,
				"feasibility":             `"High"`,
				"implementation_timeline": `"Short term"`,
			}
			delete(item, key)

			body := "{"
			first := true
			for k, v := range item {
				if !first {
					body += ","
				}
				body += `"` + k + `":` + v
				first = false
			}
			body += "}"

			_, err := usecase.ParseCountermeasures(`{"countermeasures": [`+body+`]}`, model.NewEvaluationID(), "", time.Now())
			gt.Error(t, err).Is(llmjson.ErrParse)
		})
	}

	t.Run("expected_effect defaults to empty", func(t *testing.T) {
		got, err := usecase.ParseCountermeasures(countermeasureReply, model.NewEvaluationID(), "", time.Now())
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3).Required()
		gt.Value(t, got[0].ExpectedEffect).Equal("")
		gt.Value(t, got[1].ExpectedEffect).Equal("detect in darkness")
	})
}

func TestGenerateCountermeasures(t *testing.T) {
	t.Run("stores sorted countermeasures", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(countermeasureReply)}
		uc := usecase.New(repo, llm)
		ctx := context.Background()
		risk := seedRisk(t, repo, seedSituation(t, repo).ID)
		e := seedEvaluation(t, repo, risk.ID, 5, 5, 5)

		measures, err := uc.Countermeasure.GenerateCountermeasures(ctx, e.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, measures).Length(3).Required()
		gt.Value(t, measures[0].Description).Equal("thermal camera fallback")
		gt.Value(t, measures[1].Description).Equal("cap speed at night")
		gt.Value(t, measures[2].Description).Equal("retrain with night data")
		for i, m := range measures {
			gt.Value(t, m.Rank).Equal(i)
			gt.Value(t, m.EvaluationID).Equal(e.ID)
			gt.Value(t, m.MetaCountermeasureID).Equal(model.MetaCountermeasureID(""))
		}

		prompt := llm.lastPrompt()
		gt.String(t, prompt).Contains(risk.Description)
		gt.String(t, prompt).Contains("Severity: 5/5")
		gt.String(t, prompt).Contains("Prioritize reducing the damage")
		gt.String(t, prompt).NotContains("Meta approach to implement")

		stored, err := uc.Countermeasure.ListCountermeasures(ctx, e.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(3).Required()
		gt.Value(t, stored[0].ID).Equal(measures[0].ID)
	})

	t.Run("parse failure stores nothing", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"countermeasures": [{"description": "no strategy"}]}`)}
		uc := usecase.New(repo, llm)
		ctx := context.Background()
		e := seedEvaluation(t, repo, seedRisk(t, repo, seedSituation(t, repo).ID).ID, 2, 2, 2)

		_, err := uc.Countermeasure.GenerateCountermeasures(ctx, e.ID)
		gt.Error(t, err).Is(llmjson.ErrParse)

		stored, err := uc.Countermeasure.ListCountermeasures(ctx, e.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(0)
	})

	t.Run("unknown evaluation", func(t *testing.T) {
		llm := &mockLLM{}
		uc := usecase.New(memory.New(), llm)

		_, err := uc.Countermeasure.GenerateCountermeasures(context.Background(), model.NewEvaluationID())
		gt.Error(t, err).Is(usecase.ErrEvaluationNotFound)
		gt.Value(t, llm.callCount()).Equal(0)

		_, err = uc.Countermeasure.ListCountermeasures(context.Background(), model.NewEvaluationID())
		gt.Error(t, err).Is(usecase.ErrEvaluationNotFound)
	})
}

func TestGenerateCountermeasuresFromMeta(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	e := seedEvaluation(t, repo, seedRisk(t, repo, seedSituation(t, repo).ID).ID, 4, 2, 2)

	meta := &model.MetaCountermeasure{
		ID:            model.NewMetaCountermeasureID(),
		EvaluationID:  e.ID,
		TargetAxis:    types.TargetAxisSeverityReduction,
		Approach:      "Limit the scope of impact",
		Example:       "geofence the shuttle",
		Priority:      4,
		Applicability: types.LevelHigh,
		CreatedAt:     time.Now().UTC(),
	}
	gt.NoError(t, repo.MetaCountermeasure().CreateMany(ctx, e.ID, []*model.MetaCountermeasure{meta})).Required()

	llm := &mockLLM{respond: replyWith(countermeasureReply)}
	uc := usecase.New(repo, llm)

	measures, err := uc.Countermeasure.GenerateCountermeasuresFromMeta(ctx, meta.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, measures).Length(3).Required()
	for _, m := range measures {
		gt.Value(t, m.MetaCountermeasureID).Equal(meta.ID)
		gt.Value(t, m.EvaluationID).Equal(e.ID)
	}

	prompt := llm.lastPrompt()
	gt.String(t, prompt).Contains("Meta approach to implement")
	gt.String(t, prompt).Contains("Limit the scope of impact")
	gt.String(t, prompt).Contains("geofence the shuttle")

	byMeta, err := uc.Countermeasure.ListCountermeasuresByMeta(ctx, meta.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, byMeta).Length(3)

	all, err := uc.Countermeasure.ListCountermeasures(ctx, e.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)

	_, err = uc.Countermeasure.GenerateCountermeasuresFromMeta(ctx, model.NewMetaCountermeasureID())
	gt.Error(t, err).Is(usecase.ErrMetaCountermeasureNotFound)
}
