package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

type ReportUseCase struct {
	repo    interfaces.Repository
	storage interfaces.ReportStorage
}

func NewReportUseCase(repo interfaces.Repository, storage interfaces.ReportStorage) *ReportUseCase {
	return &ReportUseCase{
		repo:    repo,
		storage: storage,
	}
}

// BuildReport assembles the assessment tree of a situation
func (uc *ReportUseCase) BuildReport(ctx context.Context, situationID model.SituationID) (*model.Report, error) {
	situation, err := uc.repo.Situation().Get(ctx, situationID)
	if err != nil {
		return nil, translateNotFound(err, ErrSituationNotFound, "failed to get situation", goerr.V(SituationIDKey, situationID))
	}

	risks, err := uc.repo.Risk().ListBySituation(ctx, situationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V(SituationIDKey, situationID))
	}

	report := &model.Report{
		Situation:   situation,
		Risks:       make([]*model.RiskReport, 0, len(risks)),
		GeneratedAt: time.Now().UTC(),
	}

	for _, risk := range risks {
		rr, err := uc.buildRiskReport(ctx, risk)
		if err != nil {
			return nil, err
		}
		report.Risks = append(report.Risks, rr)
	}

	report.Summarize()
	return report, nil
}

func (uc *ReportUseCase) buildRiskReport(ctx context.Context, risk *model.IdentifiedRisk) (*model.RiskReport, error) {
	rr := &model.RiskReport{
		Risk:                risk,
		Countermeasures:     []*model.Countermeasure{},
		MetaCountermeasures: []*model.MetaCountermeasureNode{},
	}

	evaluation, err := uc.repo.Evaluation().GetByRisk(ctx, risk.ID)
	if errors.Is(err, model.ErrNotFound) {
		return rr, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get evaluation", goerr.V(RiskIDKey, risk.ID))
	}
	rr.Evaluation = evaluation

	measures, err := uc.repo.Countermeasure().ListByEvaluation(ctx, evaluation.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list countermeasures", goerr.V(EvaluationIDKey, evaluation.ID))
	}

	metas, err := uc.repo.MetaCountermeasure().ListByEvaluation(ctx, evaluation.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list meta-countermeasures", goerr.V(EvaluationIDKey, evaluation.ID))
	}

	nodes := make(map[model.MetaCountermeasureID]*model.MetaCountermeasureNode, len(metas))
	for _, meta := range metas {
		node := &model.MetaCountermeasureNode{
			MetaCountermeasure: meta,
			Countermeasures:    []*model.Countermeasure{},
		}
		nodes[meta.ID] = node
		rr.MetaCountermeasures = append(rr.MetaCountermeasures, node)
	}

	// Countermeasures generated from a meta-countermeasure are nested under it
	for _, cm := range measures {
		if node, ok := nodes[cm.MetaCountermeasureID]; ok {
			node.Countermeasures = append(node.Countermeasures, cm)
			continue
		}
		rr.Countermeasures = append(rr.Countermeasures, cm)
	}

	return rr, nil
}

// ReportKey is the object key an exported report is stored under
func ReportKey(situationID model.SituationID, at time.Time) string {
	return fmt.Sprintf("reports/%s/%s.json", situationID, at.UTC().Format("20060102T150405Z"))
}

// ExportReport stores the JSON report in object storage and returns its URI
func (uc *ReportUseCase) ExportReport(ctx context.Context, situationID model.SituationID) (string, error) {
	if uc.storage == nil {
		return "", goerr.Wrap(ErrStorageNotConfigured, "report export is disabled")
	}

	report, err := uc.BuildReport(ctx, situationID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal report", goerr.V(SituationIDKey, situationID))
	}

	key := ReportKey(situationID, report.GeneratedAt)
	uri, err := uc.storage.Put(ctx, key, data, "application/json")
	if err != nil {
		return "", goerr.Wrap(err, "failed to store report", goerr.V(SituationIDKey, situationID), goerr.V("key", key))
	}

	logging.From(ctx).Info("report exported", "situation_id", situationID, "uri", uri)
	return uri, nil
}
