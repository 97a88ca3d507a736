package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type countermeasureRepository struct {
	store *store
}

func (r *countermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, measures []*model.Countermeasure) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.evaluations[evaluationID]; !exists {
		return goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", evaluationID))
	}

	for _, cm := range measures {
		if cm.EvaluationID != evaluationID {
			return goerr.New("countermeasure belongs to another evaluation",
				goerr.V("measure_id", cm.ID), goerr.V("evaluation_id", cm.EvaluationID))
		}
		if cm.MetaCountermeasureID != "" {
			if _, exists := r.store.metas[cm.MetaCountermeasureID]; !exists {
				return goerr.Wrap(ErrNotFound, "meta-countermeasure not found", goerr.V("id", cm.MetaCountermeasureID))
			}
		}
	}

	for _, cm := range measures {
		copied := *cm
		r.store.countermeasures[cm.ID] = &copied
	}
	return nil
}

func (r *countermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error) {
	return r.list(func(cm *model.Countermeasure) bool {
		return cm.EvaluationID == evaluationID
	}), nil
}

func (r *countermeasureRepository) ListByMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error) {
	return r.list(func(cm *model.Countermeasure) bool {
		return cm.MetaCountermeasureID == metaID
	}), nil
}

func (r *countermeasureRepository) list(match func(*model.Countermeasure) bool) []*model.Countermeasure {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var measures []*model.Countermeasure
	for _, cm := range r.store.countermeasures {
		if match(cm) {
			copied := *cm
			measures = append(measures, &copied)
		}
	}

	sort.Slice(measures, func(i, j int) bool {
		if !measures[i].CreatedAt.Equal(measures[j].CreatedAt) {
			return measures[i].CreatedAt.Before(measures[j].CreatedAt)
		}
		return measures[i].Rank < measures[j].Rank
	})
	return measures
}
