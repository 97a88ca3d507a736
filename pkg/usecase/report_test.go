package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/usecase"
)

func TestBuildReport(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	s := seedSituation(t, repo)
	evaluated := seedRisk(t, repo, s.ID)
	pending := seedRisk(t, repo, s.ID)
	e := seedEvaluation(t, repo, evaluated.ID, 5, 5, 5)

	now := time.Now().UTC()
	meta := &model.MetaCountermeasure{
		ID:            model.NewMetaCountermeasureID(),
		EvaluationID:  e.ID,
		TargetAxis:    types.TargetAxisSeverityReduction,
		Approach:      "Roll out in stages",
		Priority:      3,
		Applicability: types.LevelMedium,
		CreatedAt:     now,
	}
	gt.NoError(t, repo.MetaCountermeasure().CreateMany(ctx, e.ID, []*model.MetaCountermeasure{meta})).Required()

	direct := &model.Countermeasure{ID: model.NewCountermeasureID(), EvaluationID: e.ID, Description: "direct", Priority: 4, Feasibility: types.LevelHigh, CreatedAt: now}
	linked := &model.Countermeasure{ID: model.NewCountermeasureID(), EvaluationID: e.ID, MetaCountermeasureID: meta.ID, Description: "linked", Priority: 2, Feasibility: types.LevelLow, Rank: 1, CreatedAt: now}
	gt.NoError(t, repo.Countermeasure().CreateMany(ctx, e.ID, []*model.Countermeasure{direct, linked})).Required()

	uc := usecase.New(repo, &mockLLM{})
	report, err := uc.Report.BuildReport(ctx, s.ID)
	gt.NoError(t, err).Required()

	gt.Value(t, report.Situation.ID).Equal(s.ID)
	gt.Array(t, report.Risks).Length(2).Required()
	gt.Value(t, report.Summary.TotalRisks).Equal(2)
	gt.Value(t, report.Summary.EvaluatedRisks).Equal(1)
	gt.Value(t, report.Summary.ByLevel[types.RiskLevelHigh]).Equal(1)
	gt.Value(t, report.Summary.ByLevel[types.RiskLevelLow]).Equal(0)

	var evaluatedReport, pendingReport *model.RiskReport
	for _, rr := range report.Risks {
		switch rr.Risk.ID {
		case evaluated.ID:
			evaluatedReport = rr
		case pending.ID:
			pendingReport = rr
		}
	}
	gt.Value(t, evaluatedReport).NotNil().Required()
	gt.Value(t, pendingReport).NotNil().Required()

	gt.Value(t, pendingReport.Evaluation).Nil()
	gt.Array(t, pendingReport.Countermeasures).Length(0)

	gt.Value(t, evaluatedReport.Evaluation.ID).Equal(e.ID)
	gt.Array(t, evaluatedReport.Countermeasures).Length(1).Required()
	gt.Value(t, evaluatedReport.Countermeasures[0].Description).Equal("direct")
	gt.Array(t, evaluatedReport.MetaCountermeasures).Length(1).Required()
	gt.Array(t, evaluatedReport.MetaCountermeasures[0].Countermeasures).Length(1).Required()
	gt.Value(t, evaluatedReport.MetaCountermeasures[0].Countermeasures[0].Description).Equal("linked")

	_, err = uc.Report.BuildReport(ctx, model.NewSituationID())
	gt.Error(t, err).Is(usecase.ErrSituationNotFound)
}

func TestExportReport(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, &mockLLM{})
		s := seedSituation(t, repo)

		_, err := uc.Report.ExportReport(context.Background(), s.ID)
		gt.Error(t, err).Is(usecase.ErrStorageNotConfigured)
	})

	t.Run("stores JSON under the situation prefix", func(t *testing.T) {
		repo := memory.New()
		storage := &mockStorage{}
		uc := usecase.New(repo, &mockLLM{}, usecase.WithReportStorage(storage))
		s := seedSituation(t, repo)
		seedRisk(t, repo, s.ID)

		uri, err := uc.Report.ExportReport(context.Background(), s.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, storage.objects).Length(1).Required()

		obj := storage.objects[0]
		gt.Bool(t, strings.HasPrefix(obj.key, "reports/"+s.ID.String()+"/")).True()
		gt.Bool(t, strings.HasSuffix(obj.key, ".json")).True()
		gt.Value(t, obj.contentType).Equal("application/json")
		gt.Value(t, uri).Equal("mock://bucket/" + obj.key)

		var decoded model.Report
		gt.NoError(t, json.Unmarshal(obj.data, &decoded)).Required()
		gt.Value(t, decoded.Situation.ID).Equal(s.ID)
		gt.Array(t, decoded.Risks).Length(1)
	})
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	gt.Value(t, usecase.ReportKey("abc", at)).Equal("reports/abc/20240501T123000Z.json")
}
