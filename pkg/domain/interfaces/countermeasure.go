package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type CountermeasureRepository interface {
	// CreateMany stores a batch of countermeasures atomically. The evaluation
	// must exist, and so must the meta-countermeasure when one is referenced.
	CreateMany(ctx context.Context, evaluationID model.EvaluationID, measures []*model.Countermeasure) error

	// ListByEvaluation retrieves every countermeasure of an evaluation,
	// including those generated from meta-countermeasures
	ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error)

	// ListByMeta retrieves countermeasures generated from one meta-countermeasure
	ListByMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error)
}

type MetaCountermeasureRepository interface {
	// CreateMany stores a batch of meta-countermeasures atomically
	CreateMany(ctx context.Context, evaluationID model.EvaluationID, metas []*model.MetaCountermeasure) error

	// Get retrieves a meta-countermeasure by ID
	Get(ctx context.Context, id model.MetaCountermeasureID) (*model.MetaCountermeasure, error)

	// ListByEvaluation retrieves meta-countermeasures of an evaluation in stored order
	ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.MetaCountermeasure, error)
}
