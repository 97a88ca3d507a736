package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type riskRepository struct {
	store *store
}

func (r *riskRepository) CreateMany(ctx context.Context, situationID model.SituationID, risks []*model.IdentifiedRisk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.situations[situationID]; !exists {
		return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", situationID))
	}

	for _, risk := range risks {
		if risk.SituationID != situationID {
			return goerr.New("risk belongs to another situation",
				goerr.V("risk_id", risk.ID), goerr.V("situation_id", risk.SituationID))
		}
		if _, exists := r.store.risks[risk.ID]; exists {
			return goerr.Wrap(model.ErrConflict, "risk already exists", goerr.V("id", risk.ID))
		}
	}

	for _, risk := range risks {
		copied := *risk
		r.store.risks[risk.ID] = &copied
	}
	return nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.IdentifiedRisk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	risk, exists := r.store.risks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
	}

	copied := *risk
	return &copied, nil
}

func (r *riskRepository) ListBySituation(ctx context.Context, situationID model.SituationID) ([]*model.IdentifiedRisk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var risks []*model.IdentifiedRisk
	for _, risk := range r.store.risks {
		if risk.SituationID == situationID {
			copied := *risk
			risks = append(risks, &copied)
		}
	}

	sort.Slice(risks, func(i, j int) bool {
		if !risks[i].CreatedAt.Equal(risks[j].CreatedAt) {
			return risks[i].CreatedAt.Before(risks[j].CreatedAt)
		}
		return risks[i].Rank < risks[j].Rank
	})
	return risks, nil
}
