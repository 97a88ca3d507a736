package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type RiskRepository interface {
	// CreateMany stores all risks of one identification run or none of them.
	// The situation must exist.
	CreateMany(ctx context.Context, situationID model.SituationID, risks []*model.IdentifiedRisk) error

	// Get retrieves a risk by ID
	Get(ctx context.Context, id model.RiskID) (*model.IdentifiedRisk, error)

	// ListBySituation retrieves risks of a situation in stored order
	ListBySituation(ctx context.Context, situationID model.SituationID) ([]*model.IdentifiedRisk, error)
}
