package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/repository/firestore"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/repository/postgres"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	repo, err := postgres.New(ctx, url)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()

	// Tests share one database; start each from empty tables
	conn, err := pgx.Connect(ctx, url)
	gt.NoError(t, err).Required()
	_, err = conn.Exec(ctx, `TRUNCATE situations CASCADE`)
	gt.NoError(t, err).Required()
	gt.NoError(t, conn.Close(ctx)).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close postgres repository: %v", err)
		}
	})
	return repo
}

// forEachBackend runs fn against every backend whose test environment is configured
func forEachBackend(t *testing.T, fn func(t *testing.T, newRepo repoFactory)) {
	t.Run("Memory", func(t *testing.T) { fn(t, newMemoryRepository) })
	t.Run("Firestore", func(t *testing.T) { fn(t, newFirestoreRepository) })
	t.Run("Postgres", func(t *testing.T) { fn(t, newPostgresRepository) })
}

// Fixtures. Timestamps are truncated to microseconds so every backend round-trips them.

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func createSituation(t *testing.T, repo interfaces.Repository) *model.Situation {
	t.Helper()
	s := model.NewSituation("Chatbot answering customer billing questions", "finance", "LLM", "production")
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	gt.NoError(t, repo.Situation().Create(context.Background(), s)).Required()
	return s
}

func newRisk(situationID model.SituationID, rank int, createdAt time.Time) *model.IdentifiedRisk {
	return &model.IdentifiedRisk{
		ID:              model.NewRiskID(),
		SituationID:     situationID,
		Category:        types.GuidewordCategoryModel,
		Guideword:       "Hallucination",
		Description:     fmt.Sprintf("risk #%d", rank),
		AffectedArea:    "customer support",
		ConfidenceScore: 0.9,
		Rank:            rank,
		CreatedAt:       createdAt,
	}
}

func createRisk(t *testing.T, repo interfaces.Repository, situationID model.SituationID) *model.IdentifiedRisk {
	t.Helper()
	r := newRisk(situationID, 0, now())
	gt.NoError(t, repo.Risk().CreateMany(context.Background(), situationID, []*model.IdentifiedRisk{r})).Required()
	return r
}

func createEvaluation(t *testing.T, repo interfaces.Repository, riskID model.RiskID) *model.RiskEvaluation {
	t.Helper()
	e := model.NewRiskEvaluation(riskID,
		model.AxisScore{Score: 5, Rationale: "customers lose money"},
		model.AxisScore{Score: 4, Rationale: "daily traffic"},
		model.AxisScore{Score: 4, Rationale: "hard to notice"},
	)
	e.EvaluatedAt = now()
	gt.NoError(t, repo.Evaluation().Create(context.Background(), e)).Required()
	return e
}
