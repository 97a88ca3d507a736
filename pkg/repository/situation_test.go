package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

func TestSituationRepository(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newRepo repoFactory) {
		t.Run("Create then Get returns the same situation", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			s := createSituation(t, repo)

			got, err := repo.Situation().Get(ctx, s.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.ID).Equal(s.ID)
			gt.Value(t, got.Description).Equal(s.Description)
			gt.Value(t, got.Industry).Equal("finance")
			gt.Value(t, got.AIType).Equal("LLM")
			gt.Value(t, got.DeploymentStage).Equal("production")
			gt.Bool(t, got.CreatedAt.Equal(s.CreatedAt)).True()
		})

		t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Situation().Get(context.Background(), model.NewSituationID())
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("Create rejects a duplicate ID", func(t *testing.T) {
			repo := newRepo(t)
			s := createSituation(t, repo)
			err := repo.Situation().Create(context.Background(), s)
			gt.Error(t, err).Is(model.ErrConflict)
		})

		t.Run("List returns newest first", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			older := model.NewSituation("older", "", "", "")
			older.CreatedAt = now().Add(-time.Hour)
			newer := model.NewSituation("newer", "", "", "")
			newer.CreatedAt = now()
			gt.NoError(t, repo.Situation().Create(ctx, older)).Required()
			gt.NoError(t, repo.Situation().Create(ctx, newer)).Required()

			list, err := repo.Situation().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, list).Length(2).Required()
			gt.Value(t, list[0].ID).Equal(newer.ID)
			gt.Value(t, list[1].ID).Equal(older.ID)
		})

		t.Run("Delete cascades to every derived record", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			s := createSituation(t, repo)
			risk := createRisk(t, repo, s.ID)
			eval := createEvaluation(t, repo, risk.ID)

			meta := &model.MetaCountermeasure{
				ID:            model.NewMetaCountermeasureID(),
				EvaluationID:  eval.ID,
				TargetAxis:    "FrequencyReduction",
				Approach:      "rate limit",
				Priority:      1,
				Applicability: "High",
				CreatedAt:     now(),
			}
			gt.NoError(t, repo.MetaCountermeasure().CreateMany(ctx, eval.ID, []*model.MetaCountermeasure{meta})).Required()

			gt.NoError(t, repo.Situation().Delete(ctx, s.ID)).Required()

			_, err := repo.Situation().Get(ctx, s.ID)
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.Risk().Get(ctx, risk.ID)
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.Evaluation().Get(ctx, eval.ID)
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.MetaCountermeasure().Get(ctx, meta.ID)
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("Delete returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			err := repo.Situation().Delete(context.Background(), model.NewSituationID())
			gt.Error(t, err).Is(model.ErrNotFound)
		})
	})
}
