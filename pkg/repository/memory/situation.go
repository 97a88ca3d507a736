package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type situationRepository struct {
	store *store
}

func (r *situationRepository) Create(ctx context.Context, situation *model.Situation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.situations[situation.ID]; exists {
		return goerr.Wrap(model.ErrConflict, "situation already exists", goerr.V("id", situation.ID))
	}

	copied := *situation
	r.store.situations[situation.ID] = &copied
	return nil
}

func (r *situationRepository) Get(ctx context.Context, id model.SituationID) (*model.Situation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	situation, exists := r.store.situations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	copied := *situation
	return &copied, nil
}

func (r *situationRepository) List(ctx context.Context) ([]*model.Situation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	situations := make([]*model.Situation, 0, len(r.store.situations))
	for _, s := range r.store.situations {
		copied := *s
		situations = append(situations, &copied)
	}

	sort.Slice(situations, func(i, j int) bool {
		if situations[i].CreatedAt.Equal(situations[j].CreatedAt) {
			return situations[i].ID > situations[j].ID
		}
		return situations[i].CreatedAt.After(situations[j].CreatedAt)
	})
	return situations, nil
}

func (r *situationRepository) Delete(ctx context.Context, id model.SituationID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.situations[id]; !exists {
		return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
	}

	for riskID, risk := range r.store.risks {
		if risk.SituationID != id {
			continue
		}
		for evalID, eval := range r.store.evaluations {
			if eval.RiskID == riskID {
				r.store.deleteEvaluationLocked(evalID)
			}
		}
		delete(r.store.risks, riskID)
	}
	delete(r.store.situations, id)
	return nil
}

// deleteEvaluationLocked removes an evaluation and its children. Caller holds the write lock.
func (s *store) deleteEvaluationLocked(id model.EvaluationID) {
	for cmID, cm := range s.countermeasures {
		if cm.EvaluationID == id {
			delete(s.countermeasures, cmID)
		}
	}
	for metaID, meta := range s.metas {
		if meta.EvaluationID == id {
			delete(s.metas, metaID)
		}
	}
	delete(s.evaluations, id)
}
