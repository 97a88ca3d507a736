package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

// strategyThreshold is the axis score from which that axis drives the strategy
const strategyThreshold = 4

type CountermeasureUseCase struct {
	repo interfaces.Repository
	llm  interfaces.LLM
}

func NewCountermeasureUseCase(repo interfaces.Repository, llm interfaces.LLM) *CountermeasureUseCase {
	return &CountermeasureUseCase{
		repo: repo,
		llm:  llm,
	}
}

// SelectStrategy picks the axis to emphasize: severity first, then
// frequency, then avoidability, otherwise a balanced mix
func SelectStrategy(e *model.RiskEvaluation) types.StrategyType {
	switch {
	case e.SeverityScore >= strategyThreshold:
		return types.StrategySeverityReduction
	case e.FrequencyScore >= strategyThreshold:
		return types.StrategyFrequencyReduction
	case e.AvoidabilityScore >= strategyThreshold:
		return types.StrategyAvoidabilityImprovement
	default:
		return types.StrategyBalanced
	}
}

var strategyGuidance = map[types.StrategyType]string{
	types.StrategySeverityReduction:       "Severity is high. Prioritize reducing the damage.",
	types.StrategyFrequencyReduction:      "Frequency is high. Prioritize prevention and removing causes.",
	types.StrategyAvoidabilityImprovement: "The risk is hard to avoid. Prioritize detection and response capability.",
	types.StrategyBalanced:                "Consider a balanced set of countermeasures.",
}

type countermeasurePromptData struct {
	Risk             *model.IdentifiedRisk
	Evaluation       *model.RiskEvaluation
	StrategyGuidance string
	Meta             *model.MetaCountermeasure
}

type countermeasureReply struct {
	Countermeasures []countermeasureItem `json:"countermeasures"`
}

type countermeasureItem struct {
	StrategyType           *string `json:"strategy_type"`
	Description            *string `json:"description"`
	Priority               *int    `json:"priority"`
	Feasibility            *string `json:"feasibility"`
	ImplementationTimeline *string `json:"implementation_timeline"`
	ExpectedEffect         string  `json:"expected_effect"`
}

// GenerateCountermeasures proposes concrete countermeasures for an evaluation
func (uc *CountermeasureUseCase) GenerateCountermeasures(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error) {
	evaluation, err := uc.repo.Evaluation().Get(ctx, evaluationID)
	if err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(EvaluationIDKey, evaluationID))
	}
	return uc.generate(ctx, evaluation, nil)
}

// GenerateCountermeasuresFromMeta proposes countermeasures implementing one
// meta-countermeasure; the results are linked to it
func (uc *CountermeasureUseCase) GenerateCountermeasuresFromMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error) {
	meta, err := uc.repo.MetaCountermeasure().Get(ctx, metaID)
	if err != nil {
		return nil, translateNotFound(err, ErrMetaCountermeasureNotFound, "failed to get meta-countermeasure", goerr.V(MetaIDKey, metaID))
	}

	evaluation, err := uc.repo.Evaluation().Get(ctx, meta.EvaluationID)
	if err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(EvaluationIDKey, meta.EvaluationID))
	}
	return uc.generate(ctx, evaluation, meta)
}

func (uc *CountermeasureUseCase) generate(ctx context.Context, evaluation *model.RiskEvaluation, meta *model.MetaCountermeasure) (measures []*model.Countermeasure, err error) {
	count := 0
	defer observeStage(stageCountermeasure, time.Now(), &count, &err)

	risk, err := uc.repo.Risk().Get(ctx, evaluation.RiskID)
	if err != nil {
		return nil, translateNotFound(err, ErrRiskNotFound, "failed to get risk", goerr.V(RiskIDKey, evaluation.RiskID))
	}

	strategy := SelectStrategy(evaluation)
	prompt, err := renderPrompt(countermeasurePrompt, countermeasurePromptData{
		Risk:             risk,
		Evaluation:       evaluation,
		StrategyGuidance: strategyGuidance[strategy],
		Meta:             meta,
	})
	if err != nil {
		return nil, err
	}

	reply, err := uc.llm.Call(ctx, prompt, countermeasureSystemPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate countermeasures", goerr.V(EvaluationIDKey, evaluation.ID))
	}

	var metaID model.MetaCountermeasureID
	if meta != nil {
		metaID = meta.ID
	}
	measures, err = parseCountermeasures(reply, evaluation.ID, metaID, time.Now().UTC())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse countermeasures", goerr.V(EvaluationIDKey, evaluation.ID))
	}
	measures = PrioritizeCountermeasures(measures, evaluation.RiskLevel)
	for i, cm := range measures {
		cm.Rank = i
	}

	if len(measures) > 0 {
		if err := uc.repo.Countermeasure().CreateMany(ctx, evaluation.ID, measures); err != nil {
			return nil, goerr.Wrap(err, "failed to store countermeasures", goerr.V(EvaluationIDKey, evaluation.ID))
		}
	}

	count = len(measures)
	logging.From(ctx).Info("countermeasures generated",
		"evaluation_id", evaluation.ID,
		"meta_id", metaID,
		"strategy", strategy,
		"countermeasures", len(measures),
	)
	return measures, nil
}

func parseCountermeasures(reply string, evaluationID model.EvaluationID, metaID model.MetaCountermeasureID, now time.Time) ([]*model.Countermeasure, error) {
	var parsed countermeasureReply
	if err := llmjson.Decode(reply, &parsed); err != nil {
		return nil, err
	}

	measures := make([]*model.Countermeasure, 0, len(parsed.Countermeasures))
	for i, item := range parsed.Countermeasures {
		switch {
		case item.StrategyType == nil:
			return nil, llmjson.Missing("strategy_type", i)
		case item.Description == nil:
			return nil, llmjson.Missing("description", i)
		case item.Priority == nil:
			return nil, llmjson.Missing("priority", i)
		case item.Feasibility == nil:
			return nil, llmjson.Missing("feasibility", i)
		case item.ImplementationTimeline == nil:
			return nil, llmjson.Missing("implementation_timeline", i)
		}

		measures = append(measures, &model.Countermeasure{
			ID:                     model.NewCountermeasureID(),
			EvaluationID:           evaluationID,
			MetaCountermeasureID:   metaID,
			StrategyType:           *item.StrategyType,
			Description:            *item.Description,
			Priority:               *item.Priority,
			Feasibility:            types.Level(*item.Feasibility),
			ImplementationTimeline: *item.ImplementationTimeline,
			ExpectedEffect:         item.ExpectedEffect,
			CreatedAt:              now,
		})
	}
	return measures, nil
}

// PrioritizeCountermeasures sorts by priority, highest first. For High risks
// feasibility breaks priority ties. The sort is stable.
func PrioritizeCountermeasures(measures []*model.Countermeasure, level types.RiskLevel) []*model.Countermeasure {
	sort.SliceStable(measures, func(i, j int) bool {
		a, b := measures[i], measures[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if level == types.RiskLevelHigh {
			return a.Feasibility.Weight() > b.Feasibility.Weight()
		}
		return false
	})
	return measures
}

// ListCountermeasures returns every countermeasure of an evaluation
func (uc *CountermeasureUseCase) ListCountermeasures(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error) {
	if _, err := uc.repo.Evaluation().Get(ctx, evaluationID); err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(EvaluationIDKey, evaluationID))
	}

	measures, err := uc.repo.Countermeasure().ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list countermeasures", goerr.V(EvaluationIDKey, evaluationID))
	}
	if measures == nil {
		measures = []*model.Countermeasure{}
	}
	return measures, nil
}

// ListCountermeasuresByMeta returns countermeasures generated from a meta-countermeasure
func (uc *CountermeasureUseCase) ListCountermeasuresByMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error) {
	if _, err := uc.repo.MetaCountermeasure().Get(ctx, metaID); err != nil {
		return nil, translateNotFound(err, ErrMetaCountermeasureNotFound, "failed to get meta-countermeasure", goerr.V(MetaIDKey, metaID))
	}

	measures, err := uc.repo.Countermeasure().ListByMeta(ctx, metaID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list countermeasures", goerr.V(MetaIDKey, metaID))
	}
	if measures == nil {
		measures = []*model.Countermeasure{}
	}
	return measures, nil
}
