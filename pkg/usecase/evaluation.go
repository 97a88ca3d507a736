package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/utils/errutil"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

type EvaluationUseCase struct {
	repo        interfaces.Repository
	llm         interfaces.LLM
	notifier    interfaces.Notifier
	notifyLevel types.RiskLevel
}

func NewEvaluationUseCase(repo interfaces.Repository, llm interfaces.LLM, notifier interfaces.Notifier, notifyLevel types.RiskLevel) *EvaluationUseCase {
	return &EvaluationUseCase{
		repo:        repo,
		llm:         llm,
		notifier:    notifier,
		notifyLevel: notifyLevel,
	}
}

// scoringAxis is one of the three independent evaluation axes
type scoringAxis struct {
	name   string
	prompt *template.Template
}

var (
	severityAxis     = scoringAxis{name: "severity", prompt: severityPrompt}
	frequencyAxis    = scoringAxis{name: "frequency", prompt: frequencyPrompt}
	avoidabilityAxis = scoringAxis{name: "avoidability", prompt: avoidabilityPrompt}
)

type axisPromptData struct {
	Risk *model.IdentifiedRisk
}

// EvaluateRisk scores a risk on severity, frequency and avoidability with one
// LLM call per axis and stores the evaluation. A risk is evaluated only once.
func (uc *EvaluationUseCase) EvaluateRisk(ctx context.Context, riskID model.RiskID) (evaluation *model.RiskEvaluation, err error) {
	defer observeStage(stageEvaluation, time.Now(), nil, &err)

	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		return nil, translateNotFound(err, ErrRiskNotFound, "failed to get risk", goerr.V(RiskIDKey, riskID))
	}

	if existing, err := uc.repo.Evaluation().GetByRisk(ctx, riskID); err == nil {
		return nil, goerr.Wrap(ErrAlreadyEvaluated, "risk already has an evaluation",
			goerr.V(RiskIDKey, riskID), goerr.V(EvaluationIDKey, existing.ID))
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to look up evaluation", goerr.V(RiskIDKey, riskID))
	}

	var severity, frequency, avoidability model.AxisScore
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		severity, err = uc.scoreAxis(egCtx, severityAxis, risk)
		return err
	})
	eg.Go(func() error {
		var err error
		frequency, err = uc.scoreAxis(egCtx, frequencyAxis, risk)
		return err
	})
	eg.Go(func() error {
		var err error
		avoidability, err = uc.scoreAxis(egCtx, avoidabilityAxis, risk)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate risk", goerr.V(RiskIDKey, riskID))
	}

	evaluation = model.NewRiskEvaluation(riskID, severity, frequency, avoidability)
	if err := uc.repo.Evaluation().Create(ctx, evaluation); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, goerr.Wrap(ErrAlreadyEvaluated, "risk was evaluated concurrently", goerr.V(RiskIDKey, riskID))
		}
		return nil, translateNotFound(err, ErrRiskNotFound, "failed to store evaluation", goerr.V(RiskIDKey, riskID))
	}

	logging.From(ctx).Info("risk evaluated",
		"risk_id", riskID,
		"evaluation_id", evaluation.ID,
		"severity", evaluation.SeverityScore,
		"frequency", evaluation.FrequencyScore,
		"avoidability", evaluation.AvoidabilityScore,
		"level", evaluation.RiskLevel,
	)

	uc.notify(ctx, risk, evaluation)
	return evaluation, nil
}

func (uc *EvaluationUseCase) scoreAxis(ctx context.Context, axis scoringAxis, risk *model.IdentifiedRisk) (model.AxisScore, error) {
	prompt, err := renderPrompt(axis.prompt, axisPromptData{Risk: risk})
	if err != nil {
		return model.AxisScore{}, err
	}

	reply, err := uc.llm.Call(ctx, prompt, evaluationSystemPrompt)
	if err != nil {
		return model.AxisScore{}, goerr.Wrap(err, "failed to score axis", goerr.V("axis", axis.name))
	}

	score, err := parseAxisScore(reply, axis.name)
	if err != nil {
		return model.AxisScore{}, goerr.Wrap(err, "failed to parse axis score", goerr.V("axis", axis.name))
	}
	return score, nil
}

// parseAxisScore reads "<axis>_score" (or plain "score") and "rationale".
// The score must be an integer from 1 to 5.
func parseAxisScore(reply, axis string) (model.AxisScore, error) {
	var fields map[string]json.RawMessage
	if err := llmjson.Decode(reply, &fields); err != nil {
		return model.AxisScore{}, err
	}

	key := axis + "_score"
	raw, ok := fields[key]
	if !ok {
		raw, ok = fields["score"]
	}
	if !ok {
		return model.AxisScore{}, llmjson.Missing(key, 0)
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return model.AxisScore{}, goerr.Wrap(llmjson.ErrParse, "score is not a number", goerr.V("key", key), goerr.V("value", string(raw)))
	}
	if value != math.Trunc(value) || !model.ValidAxisScore(int(value)) {
		return model.AxisScore{}, goerr.Wrap(llmjson.ErrParse, "score must be an integer from 1 to 5", goerr.V("key", key), goerr.V("value", value))
	}

	var rationale string
	if r, ok := fields["rationale"]; ok {
		if err := json.Unmarshal(r, &rationale); err != nil {
			return model.AxisScore{}, goerr.Wrap(llmjson.ErrParse, "rationale is not a string", goerr.V("value", string(r)))
		}
	}

	return model.AxisScore{Score: int(value), Rationale: rationale}, nil
}

// notify posts the evaluation when it reaches the configured level. Failures
// are logged and reported only.
func (uc *EvaluationUseCase) notify(ctx context.Context, risk *model.IdentifiedRisk, evaluation *model.RiskEvaluation) {
	if uc.notifier == nil || !evaluation.RiskLevel.AtLeast(uc.notifyLevel) {
		return
	}

	situation, err := uc.repo.Situation().Get(ctx, risk.SituationID)
	if err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to load situation for notification"), "notification skipped")
		return
	}

	if err := uc.notifier.NotifyEvaluation(ctx, situation, risk, evaluation); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to notify evaluation",
			goerr.V(EvaluationIDKey, evaluation.ID)), "notification failed")
	}
}

// GetEvaluationByRisk returns the stored evaluation of a risk
func (uc *EvaluationUseCase) GetEvaluationByRisk(ctx context.Context, riskID model.RiskID) (*model.RiskEvaluation, error) {
	if _, err := uc.repo.Risk().Get(ctx, riskID); err != nil {
		return nil, translateNotFound(err, ErrRiskNotFound, "failed to get risk", goerr.V(RiskIDKey, riskID))
	}

	evaluation, err := uc.repo.Evaluation().GetByRisk(ctx, riskID)
	if err != nil {
		return nil, translateNotFound(err, ErrEvaluationNotFound, "failed to get evaluation", goerr.V(RiskIDKey, riskID))
	}
	return evaluation, nil
}
