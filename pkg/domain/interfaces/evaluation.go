package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type EvaluationRepository interface {
	// Create stores an evaluation. The risk must exist and must not have an
	// evaluation yet (model.ErrConflict).
	Create(ctx context.Context, evaluation *model.RiskEvaluation) error

	// Get retrieves an evaluation by ID
	Get(ctx context.Context, id model.EvaluationID) (*model.RiskEvaluation, error)

	// GetByRisk retrieves the evaluation of a risk
	GetByRisk(ctx context.Context, riskID model.RiskID) (*model.RiskEvaluation, error)
}
