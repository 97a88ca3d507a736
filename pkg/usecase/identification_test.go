package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
)

func TestIdentifyRisks(t *testing.T) {
	t.Run("stores one risk per reply item", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith("```json\n" + `{"identified_risks": [
			{"category": "Data", "guideword": "Coverage", "risk_description": "Dark clothing is missed", "affected_area": "road", "confidence": "High"}
		]}` + "\n```")}
		uc := usecase.New(repo, llm)
		ctx := context.Background()
		s := seedSituation(t, repo)

		risks, err := uc.Identification.IdentifyRisks(ctx, s.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1).Required()
		gt.Value(t, risks[0].ConfidenceScore).Equal(0.9)
		gt.Value(t, risks[0].Guideword).Equal("Coverage")
		gt.Value(t, risks[0].AffectedArea).Equal("road")
		gt.Value(t, risks[0].SituationID).Equal(s.ID)

		stored, err := uc.Situation.ListRisks(ctx, s.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(1).Required()
		gt.Value(t, stored[0].ID).Equal(risks[0].ID)
	})

	t.Run("deduplicates identical descriptions and sorts by confidence", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"identified_risks": [
			{"category": "Data", "guideword": "Coverage", "risk_description": "A", "affected_area": "first", "confidence": "Low"},
			{"category": "Model", "guideword": "Fairness", "risk_description": "A", "affected_area": "second", "confidence": "High"},
			{"category": "Operation", "guideword": "Misuse", "risk_description": "B", "affected_area": "third", "confidence": "Medium"},
			{"category": "Operation", "guideword": "Misuse", "risk_description": "C", "confidence": "Certain"}
		]}`)}
		uc := usecase.New(repo, llm)
		ctx := context.Background()
		s := seedSituation(t, repo)

		risks, err := uc.Identification.IdentifyRisks(ctx, s.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(3).Required()

		// B (0.7) and C (unknown label, 0.7) keep their order ahead of A (0.5)
		gt.Value(t, risks[0].Description).Equal("B")
		gt.Value(t, risks[1].Description).Equal("C")
		gt.Value(t, risks[1].ConfidenceScore).Equal(0.7)
		gt.Value(t, risks[2].Description).Equal("A")
		gt.Value(t, risks[2].AffectedArea).Equal("first")
		for i, r := range risks {
			gt.Value(t, r.Rank).Equal(i)
		}

		stored, err := uc.Situation.ListRisks(ctx, s.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(3).Required()
		gt.Value(t, stored[0].Description).Equal("B")
		gt.Value(t, stored[2].Description).Equal("A")
	})

	t.Run("prompt lists only the selected guidewords", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"identified_risks": []}`)}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		risks, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, []string{"Copyright", "Misuse"})
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(0)

		prompt := llm.lastPrompt()
		gt.String(t, prompt).Contains("- Copyright:")
		gt.String(t, prompt).Contains("- Misuse:")
		gt.String(t, prompt).NotContains("- Coverage:")
		gt.String(t, prompt).Contains("## Data category")
		gt.String(t, prompt).Contains("## Operation category")
		gt.String(t, prompt).NotContains("## Model category")
		gt.String(t, prompt).Contains(s.Description)
	})

	t.Run("empty selection uses the whole catalog", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"identified_risks": []}`)}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		_, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, []string{})
		gt.NoError(t, err).Required()

		prompt := llm.lastPrompt()
		for _, gw := range model.DefaultGuidewords() {
			gt.String(t, prompt).Contains("- " + gw.Name + ":")
		}
	})

	t.Run("unknown guideword selection skips the LLM", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		risks, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, []string{"NoSuchGuideword"})
		gt.NoError(t, err).Required()
		gt.Value(t, risks).NotNil()
		gt.Array(t, risks).Length(0)
		gt.Value(t, llm.callCount()).Equal(0)
	})

	t.Run("missing required key fails without storing anything", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"identified_risks": [
			{"category": "Data", "guideword": "Coverage", "risk_description": "ok"},
			{"category": "Data", "risk_description": "no guideword"}
		]}`)}
		uc := usecase.New(repo, llm)
		ctx := context.Background()
		s := seedSituation(t, repo)

		_, err := uc.Identification.IdentifyRisks(ctx, s.ID, nil)
		gt.Error(t, err).Is(llmjson.ErrParse)

		stored, err := uc.Situation.ListRisks(ctx, s.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(0)
	})

	t.Run("malformed reply is a parse error", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith("I could not find any risks.")}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		_, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, nil)
		gt.Error(t, err).Is(llmjson.ErrParse)
	})

	t.Run("description is accepted in place of risk_description", func(t *testing.T) {
		repo := memory.New()
		llm := &mockLLM{respond: replyWith(`{"identified_risks": [{"category": "Model", "guideword": "Fairness", "description": "alt"}]}`)}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		risks, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1).Required()
		gt.Value(t, risks[0].Description).Equal("alt")
		gt.Value(t, risks[0].ConfidenceScore).Equal(0.7)
	})

	t.Run("unknown situation", func(t *testing.T) {
		llm := &mockLLM{}
		uc := usecase.New(memory.New(), llm)

		_, err := uc.Identification.IdentifyRisks(context.Background(), model.NewSituationID(), nil)
		gt.Error(t, err).Is(usecase.ErrSituationNotFound)
		gt.Value(t, llm.callCount()).Equal(0)
	})

	t.Run("provider failure is returned", func(t *testing.T) {
		repo := memory.New()
		providerErr := errors.New("provider down")
		llm := &mockLLM{respond: func(string, string) (string, error) { return "", providerErr }}
		uc := usecase.New(repo, llm)
		s := seedSituation(t, repo)

		_, err := uc.Identification.IdentifyRisks(context.Background(), s.ID, nil)
		gt.Error(t, err).Is(providerErr)
	})
}

func TestDeduplicateRisks(t *testing.T) {
	risks := []*model.IdentifiedRisk{
		{Description: "A", AffectedArea: "first"},
		{Description: "A", AffectedArea: "second"},
		{Description: "B"},
	}

	got := usecase.DeduplicateRisks(risks)
	gt.Array(t, got).Length(2).Required()
	gt.Value(t, got[0].AffectedArea).Equal("first")
	gt.Value(t, got[1].Description).Equal("B")
}

func TestPrioritizeRisks_Stable(t *testing.T) {
	risks := []*model.IdentifiedRisk{
		{Description: "m1", ConfidenceScore: 0.7},
		{Description: "h", ConfidenceScore: 0.9},
		{Description: "m2", ConfidenceScore: 0.7},
		{Description: "l", ConfidenceScore: 0.5},
	}

	got := usecase.PrioritizeRisks(risks)
	want := []string{"h", "m1", "m2", "l"}
	for i, r := range got {
		gt.Value(t, r.Description).Equal(want[i])
	}
}
