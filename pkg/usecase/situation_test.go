package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/usecase"
)

func TestCreateSituation_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.SituationInput
		wantErr bool
	}{
		{"description only", usecase.SituationInput{Description: "chatbot"}, false},
		{"all fields", usecase.SituationInput{Description: "chatbot", Industry: "finance", AIType: "LLM", DeploymentStage: "beta"}, false},
		{"empty description", usecase.SituationInput{}, true},
		{"blank description", usecase.SituationInput{Description: "   "}, true},
		{"description too long", usecase.SituationInput{Description: strings.Repeat("a", usecase.MaxDescriptionLength+1)}, true},
		{"industry too long", usecase.SituationInput{Description: "x", Industry: strings.Repeat("i", usecase.MaxTagLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.New(memory.New(), &mockLLM{})
			s, err := uc.Situation.CreateSituation(context.Background(), tt.input)
			if tt.wantErr {
				gt.Error(t, err).Is(usecase.ErrInvalidInput)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, s.Description).Equal(tt.input.Description)
			gt.Value(t, s.Industry).Equal(tt.input.Industry)
			gt.Bool(t, s.CreatedAt.IsZero()).False()
		})
	}
}

func TestSituationLifecycle(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo, &mockLLM{})
	ctx := context.Background()

	s, err := uc.Situation.CreateSituation(ctx, usecase.SituationInput{Description: "loan scoring model"})
	gt.NoError(t, err).Required()

	got, err := uc.Situation.GetSituation(ctx, s.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Description).Equal("loan scoring model")

	list, err := uc.Situation.ListSituations(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(1)

	risk := seedRisk(t, repo, s.ID)
	seedEvaluation(t, repo, risk.ID, 3, 3, 3)

	gt.NoError(t, uc.Situation.DeleteSituation(ctx, s.ID)).Required()

	_, err = uc.Situation.GetSituation(ctx, s.ID)
	gt.Error(t, err).Is(usecase.ErrSituationNotFound)
	_, err = uc.Evaluation.GetEvaluationByRisk(ctx, risk.ID)
	gt.Error(t, err).Is(usecase.ErrRiskNotFound)

	gt.Error(t, uc.Situation.DeleteSituation(ctx, s.ID)).Is(usecase.ErrSituationNotFound)
	_, err = uc.Situation.ListRisks(ctx, model.NewSituationID())
	gt.Error(t, err).Is(usecase.ErrSituationNotFound)

	empty, err := uc.Situation.ListSituations(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, empty).NotNil()
	gt.Array(t, empty).Length(0)
}

func TestGuidewords(t *testing.T) {
	uc := usecase.New(memory.New(), &mockLLM{})
	gws := uc.Situation.Guidewords()
	gt.Array(t, gws).Length(13)
	gt.Value(t, gws[0].Name).Equal("Coverage")
}
