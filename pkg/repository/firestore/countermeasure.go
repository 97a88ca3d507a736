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

type countermeasureDocument struct {
	ID                     string    `firestore:"id"`
	EvaluationID           string    `firestore:"evaluation_id"`
	MetaID                 string    `firestore:"meta_id"`
	StrategyType           string    `firestore:"strategy_type"`
	Description            string    `firestore:"description"`
	Priority               int       `firestore:"priority"`
	Feasibility            string    `firestore:"feasibility"`
	ImplementationTimeline string    `firestore:"implementation_timeline"`
	ExpectedEffect         string    `firestore:"expected_effect"`
	Rank                   int       `firestore:"rank"`
	CreatedAt              time.Time `firestore:"created_at"`
}

func (d *countermeasureDocument) toModel() *model.Countermeasure {
	return &model.Countermeasure{
		ID:                     model.CountermeasureID(d.ID),
		EvaluationID:           model.EvaluationID(d.EvaluationID),
		MetaCountermeasureID:   model.MetaCountermeasureID(d.MetaID),
		StrategyType:           d.StrategyType,
		Description:            d.Description,
		Priority:               d.Priority,
		Feasibility:            types.Level(d.Feasibility),
		ImplementationTimeline: d.ImplementationTimeline,
		ExpectedEffect:         d.ExpectedEffect,
		Rank:                   d.Rank,
		CreatedAt:              d.CreatedAt,
	}
}

type countermeasureRepository struct {
	client *firestore.Client
	cols   *collections
}

func (r *countermeasureRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.cols.name(CollectionCountermeasures))
}

func (r *countermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, measures []*model.Countermeasure) error {
	evalRef := r.client.Collection(r.cols.name(CollectionEvaluations)).Doc(evaluationID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := mustExist(tx, evalRef, "evaluation"); err != nil {
			return err
		}

		checked := make(map[model.MetaCountermeasureID]bool)
		for _, cm := range measures {
			if cm.MetaCountermeasureID == "" || checked[cm.MetaCountermeasureID] {
				continue
			}
			metaRef := r.client.Collection(r.cols.name(CollectionMetaCountermeasures)).Doc(cm.MetaCountermeasureID.String())
			if err := mustExist(tx, metaRef, "meta-countermeasure"); err != nil {
				return err
			}
			checked[cm.MetaCountermeasureID] = true
		}

		for _, cm := range measures {
			if cm.EvaluationID != evaluationID {
				return goerr.New("countermeasure belongs to another evaluation",
					goerr.V("measure_id", cm.ID), goerr.V("evaluation_id", cm.EvaluationID))
			}
			doc := &countermeasureDocument{
				ID:                     cm.ID.String(),
				EvaluationID:           evaluationID.String(),
				MetaID:                 cm.MetaCountermeasureID.String(),
				StrategyType:           cm.StrategyType,
				Description:            cm.Description,
				Priority:               cm.Priority,
				Feasibility:            cm.Feasibility.String(),
				ImplementationTimeline: cm.ImplementationTimeline,
				ExpectedEffect:         cm.ExpectedEffect,
				Rank:                   cm.Rank,
				CreatedAt:              cm.CreatedAt,
			}
			if err := tx.Create(r.collection().Doc(doc.ID), doc); err != nil {
				return goerr.Wrap(err, "failed to create countermeasure", goerr.V("id", cm.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store countermeasures", goerr.V("evaluation_id", evaluationID))
	}
	return nil
}

func (r *countermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error) {
	return r.list(ctx, "evaluation_id", evaluationID.String())
}

func (r *countermeasureRepository) ListByMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error) {
	return r.list(ctx, "meta_id", metaID.String())
}

func (r *countermeasureRepository) list(ctx context.Context, field, value string) ([]*model.Countermeasure, error) {
	iter := r.collection().
		Where(field, "==", value).
		OrderBy("created_at", firestore.Asc).
		OrderBy("rank", firestore.Asc).
		Documents(ctx)

	docs, err := decodeAll[countermeasureDocument](iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list countermeasures", goerr.V(field, value))
	}

	measures := make([]*model.Countermeasure, len(docs))
	for i, d := range docs {
		measures[i] = d.toModel()
	}
	return measures, nil
}

// mustExist fails with ErrNotFound when ref does not exist
func mustExist(tx *firestore.Transaction, ref *firestore.DocumentRef, kind string) error {
	if _, err := tx.Get(ref); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, kind+" not found", goerr.V("id", ref.ID))
		}
		return goerr.Wrap(err, "failed to get "+kind, goerr.V("id", ref.ID))
	}
	return nil
}
