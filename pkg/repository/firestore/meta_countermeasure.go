package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type metaCountermeasureDocument struct {
	ID            string    `firestore:"id"`
	EvaluationID  string    `firestore:"evaluation_id"`
	TargetAxis    string    `firestore:"target_axis"`
	Approach      string    `firestore:"meta_approach"`
	Example       string    `firestore:"example"`
	Priority      int       `firestore:"priority"`
	Applicability string    `firestore:"applicability"`
	Rank          int       `firestore:"rank"`
	CreatedAt     time.Time `firestore:"created_at"`
}

func (d *metaCountermeasureDocument) toModel() *model.MetaCountermeasure {
	return &model.MetaCountermeasure{
		ID:            model.MetaCountermeasureID(d.ID),
		EvaluationID:  model.EvaluationID(d.EvaluationID),
		TargetAxis:    types.TargetAxis(d.TargetAxis),
		Approach:      d.Approach,
		Example:       d.Example,
		Priority:      d.Priority,
		Applicability: types.Level(d.Applicability),
		Rank:          d.Rank,
		CreatedAt:     d.CreatedAt,
	}
}

type metaCountermeasureRepository struct {
	client *firestore.Client
	cols   *collections
}

func (r *metaCountermeasureRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.cols.name(CollectionMetaCountermeasures))
}

func (r *metaCountermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, metas []*model.MetaCountermeasure) error {
	evalRef := r.client.Collection(r.cols.name(CollectionEvaluations)).Doc(evaluationID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := mustExist(tx, evalRef, "evaluation"); err != nil {
			return err
		}

		for _, meta := range metas {
			if meta.EvaluationID != evaluationID {
				return goerr.New("meta-countermeasure belongs to another evaluation",
					goerr.V("meta_id", meta.ID), goerr.V("evaluation_id", meta.EvaluationID))
			}
			doc := &metaCountermeasureDocument{
				ID:            meta.ID.String(),
				EvaluationID:  evaluationID.String(),
				TargetAxis:    meta.TargetAxis.String(),
				Approach:      meta.Approach,
				Example:       meta.Example,
				Priority:      meta.Priority,
				Applicability: meta.Applicability.String(),
				Rank:          meta.Rank,
				CreatedAt:     meta.CreatedAt,
			}
			if err := tx.Create(r.collection().Doc(doc.ID), doc); err != nil {
				return goerr.Wrap(err, "failed to create meta-countermeasure", goerr.V("id", meta.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store meta-countermeasures", goerr.V("evaluation_id", evaluationID))
	}
	return nil
}

func (r *metaCountermeasureRepository) Get(ctx context.Context, id model.MetaCountermeasureID) (*model.MetaCountermeasure, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "meta-countermeasure not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get meta-countermeasure", goerr.V("id", id))
	}

	var doc metaCountermeasureDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal meta-countermeasure", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *metaCountermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.MetaCountermeasure, error) {
	iter := r.collection().
		Where("evaluation_id", "==", evaluationID.String()).
		OrderBy("created_at", firestore.Asc).
		OrderBy("rank", firestore.Asc).
		Documents(ctx)

	docs, err := decodeAll[metaCountermeasureDocument](iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list meta-countermeasures", goerr.V("evaluation_id", evaluationID))
	}

	metas := make([]*model.MetaCountermeasure, len(docs))
	for i, d := range docs {
		metas[i] = d.toModel()
	}
	return metas, nil
}
