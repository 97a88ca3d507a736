package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type SituationRepository interface {
	// Create stores a new situation
	Create(ctx context.Context, situation *model.Situation) error

	// Get retrieves a situation by ID
	Get(ctx context.Context, id model.SituationID) (*model.Situation, error)

	// List retrieves all situations, newest first
	List(ctx context.Context) ([]*model.Situation, error)

	// Delete removes a situation and every record derived from it
	Delete(ctx context.Context, id model.SituationID) error
}
