package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type evaluationRepository struct {
	store *store
}

func (r *evaluationRepository) Create(ctx context.Context, evaluation *model.RiskEvaluation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.risks[evaluation.RiskID]; !exists {
		return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", evaluation.RiskID))
	}
	for _, existing := range r.store.evaluations {
		if existing.RiskID == evaluation.RiskID {
			return goerr.Wrap(model.ErrConflict, "risk is already evaluated",
				goerr.V("risk_id", evaluation.RiskID), goerr.V("evaluation_id", existing.ID))
		}
	}

	copied := *evaluation
	r.store.evaluations[evaluation.ID] = &copied
	return nil
}

func (r *evaluationRepository) Get(ctx context.Context, id model.EvaluationID) (*model.RiskEvaluation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	evaluation, exists := r.store.evaluations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", id))
	}

	copied := *evaluation
	return &copied, nil
}

func (r *evaluationRepository) GetByRisk(ctx context.Context, riskID model.RiskID) (*model.RiskEvaluation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, evaluation := range r.store.evaluations {
		if evaluation.RiskID == riskID {
			copied := *evaluation
			return &copied, nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("risk_id", riskID))
}
