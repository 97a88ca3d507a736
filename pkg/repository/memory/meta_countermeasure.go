package memory

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type metaCountermeasureRepository struct {
	store *store
}

func (r *metaCountermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, metas []*model.MetaCountermeasure) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.evaluations[evaluationID]; !exists {
		return goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", evaluationID))
	}
	for _, meta := range metas {
		if meta.EvaluationID != evaluationID {
			return goerr.New("meta-countermeasure belongs to another evaluation",
				goerr.V("meta_id", meta.ID), goerr.V("evaluation_id", meta.EvaluationID))
		}
	}

	for _, meta := range metas {
		copied := *meta
		r.store.metas[meta.ID] = &copied
	}
	return nil
}

func (r *metaCountermeasureRepository) Get(ctx context.Context, id model.MetaCountermeasureID) (*model.MetaCountermeasure, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	meta, exists := r.store.metas[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "meta-countermeasure not found", goerr.V("id", id))
	}

	copied := *meta
	return &copied, nil
}

func (r *metaCountermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.MetaCountermeasure, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var metas []*model.MetaCountermeasure
	for _, meta := range r.store.metas {
		if meta.EvaluationID == evaluationID {
			copied := *meta
			metas = append(metas, &copied)
		}
	}

	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].CreatedAt.Before(metas[j].CreatedAt)
		}
		return metas[i].Rank < metas[j].Rank
	})
	return metas, nil
}
