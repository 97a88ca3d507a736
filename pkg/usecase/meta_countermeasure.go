package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

// metaEligibleScore is the lowest axis score that gets meta-countermeasures
const metaEligibleScore = 3

type MetaCountermeasureUseCase struct {
	repo interfaces.Repository
	llm  interfaces.LLM
}

func NewMetaCountermeasureUseCase(repo interfaces.Repository, llm interfaces.LLM) *MetaCountermeasureUseCase {
	return &MetaCountermeasureUseCase{
		repo: repo,
		llm:  llm,
	}
}

// metaAxisGuide is the prompt material of one target axis
type metaAxisGuide struct {
	Goal     string
	AxisName string
	Examples []string
}

var metaAxisGuides = map[types.TargetAxis]metaAxisGuide{
	types.TargetAxisFrequencyReduction: {
		Goal:     "lower how often the risk occurs",
		AxisName: "Frequency",
		Examples: []string{
			"Improve the performance of the AI",
			"Improve the quality of input data",
			"Improve the training data",
			"Make the model more robust",
			"Improve detection of edge cases",
		},
	},
	types.TargetAxisAvoidabilityImprovement: {
		Goal:     "make the risk easier to avoid",
		AxisName: "Avoidability",
		Examples: []string{
			"Design guards outside the AI",
			"Build a human confirmation step into the process",
			"Introduce anomaly detection",
			"Strengthen monitoring",
			"Add fail-safe mechanisms",
		},
	},
	types.TargetAxisSeverityReduction: {
		Goal:     "reduce the severity of the harm",
		AxisName: "Severity",
		Examples: []string{
			"Define preconditions clearly",
			"Clarify the terms of use",
			"Limit the scope of impact",
			"Roll out in stages",
			"Prepare a fallback",
		},
	},
}

type metaPromptData struct {
	Guide     metaAxisGuide
	Risk      *model.IdentifiedRisk
	Score     int
	Rationale string
}

type metaReply struct {
	MetaApproaches []metaItem `json:"meta_approaches"`
}

type metaItem struct {
	Approach      *string `json:"approach"`
	Example       string  `json:"example"`
	Priority      *int    `json:"priority"`
	Applicability string  `json:"applicability"`
}

// EligibleAxes returns the axes scoring at least 3, in generation order
func EligibleAxes(e *model.RiskEvaluation) []types.TargetAxis {
	var axes []types.TargetAxis
	for _, axis := range types.AllTargetAxes() {
		if e.AxisScoreFor(axis) >= metaEligibleScore {
			axes = append(axes, axis)
		}
	}
	return axes
}

func axisRationale(e *model.RiskEvaluation, axis types.TargetAxis) string {
	switch axis {
	case types.TargetAxisFrequencyReduction:
		return e.FrequencyRationale
	case types.TargetAxisAvoidabilityImprovement:
		return e.AvoidabilityRationale
	case types.TargetAxisSeverityReduction:
		return e.SeverityRationale
	default:
		return ""
	}
}

// GenerateMetaCountermeasures proposes abstract approaches for every axis
// scoring at least 3. Axes are processed in order and results are not re-sorted.
func (uc *MetaCountermeasureUseCase) GenerateMetaCountermeasures(ctx context.Context, evaluationID model.EvaluationID) (metas []*model.MetaCountermeasure, err error) {
	count := 0
	defer observeStage(stageMetaCountermeasure, time.Now(), &count, &err)

	evaluation, err := uc.repo.Evaluation().Get(ctx, evaluationID)
	if err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(EvaluationIDKey, evaluationID))
	}

	axes := EligibleAxes(evaluation)
	if len(axes) == 0 {
		logging.From(ctx).Info("no axis eligible for meta-countermeasures", "evaluation_id", evaluationID)
		return []*model.MetaCountermeasure{}, nil
	}

	risk, err := uc.repo.Risk().Get(ctx, evaluation.RiskID)
	if err != nil {
		return nil, translateNotFound(err, ErrRiskNotFound, "failed to get risk", goerr.V(RiskIDKey, evaluation.RiskID))
	}

	now := time.Now().UTC()
	metas = []*model.MetaCountermeasure{}
	for _, axis := range axes {
		generated, err := uc.generateForAxis(ctx, evaluation, risk, axis, now)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate meta-countermeasures",
				goerr.V(EvaluationIDKey, evaluationID), goerr.V("axis", axis))
		}
		metas = append(metas, generated...)
	}
	for i, m := range metas {
		m.Rank = i
	}

	if len(metas) > 0 {
		if err := uc.repo.MetaCountermeasure().CreateMany(ctx, evaluationID, metas); err != nil {
			return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to store meta-countermeasures", goerr.V(EvaluationIDKey, evaluationID))
		}
	}

	count = len(metas)
	logging.From(ctx).Info("meta-countermeasures generated",
		"evaluation_id", evaluationID,
		"axes", axes,
		"meta_countermeasures", len(metas),
	)
	return metas, nil
}

func (uc *MetaCountermeasureUseCase) generateForAxis(ctx context.Context, evaluation *model.RiskEvaluation, risk *model.IdentifiedRisk, axis types.TargetAxis, now time.Time) ([]*model.MetaCountermeasure, error) {
	prompt, err := renderPrompt(metaPrompt, metaPromptData{
		Guide:     metaAxisGuides[axis],
		Risk:      risk,
		Score:     evaluation.AxisScoreFor(axis),
		Rationale: axisRationale(evaluation, axis),
	})
	if err != nil {
		return nil, err
	}

	reply, err := uc.llm.Call(ctx, prompt, metaSystemPrompt)
	if err != nil {
		return nil, err
	}

	return parseMetaCountermeasures(reply, evaluation.ID, axis, now)
}

func parseMetaCountermeasures(reply string, evaluationID model.EvaluationID, axis types.TargetAxis, now time.Time) ([]*model.MetaCountermeasure, error) {
	var parsed metaReply
	if err := llmjson.Decode(reply, &parsed); err != nil {
		return nil, err
	}

	metas := make([]*model.MetaCountermeasure, 0, len(parsed.MetaApproaches))
	for i, item := range parsed.MetaApproaches {
		if item.Approach == nil {
			return nil, llmjson.Missing("approach", i)
		}

		priority := model.DefaultMetaPriority
		if item.Priority != nil {
			priority = *item.Priority
		}
		applicability := types.Level(item.Applicability)
		if applicability == "" {
			applicability = model.DefaultMetaApplicability
		}

		metas = append(metas, &model.MetaCountermeasure{
			ID:            model.NewMetaCountermeasureID(),
			EvaluationID:  evaluationID,
			TargetAxis:    axis,
			Approach:      *item.Approach,
			Example:       item.Example,
			Priority:      priority,
			Applicability: applicability,
			CreatedAt:     now,
		})
	}
	return metas, nil
}

// ListMetaCountermeasures returns the stored meta-countermeasures of an evaluation
func (uc *MetaCountermeasureUseCase) ListMetaCountermeasures(ctx context.Context, evaluationID model.EvaluationID) ([]*model.MetaCountermeasure, error) {
	if _, err := uc.repo.Evaluation().Get(ctx, evaluationID); err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(EvaluationIDKey, evaluationID))
	}

	metas, err := uc.repo.MetaCountermeasure().ListByEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list meta-countermeasures", goerr.V(EvaluationIDKey, evaluationID))
	}
	if metas == nil {
		metas = []*model.MetaCountermeasure{}
	}
	return metas, nil
}
