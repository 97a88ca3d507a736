package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type situationDocument struct {
	ID              string    `firestore:"id"`
	Description     string    `firestore:"description"`
	Industry        string    `firestore:"industry"`
	AIType          string    `firestore:"ai_type"`
	DeploymentStage string    `firestore:"deployment_stage"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func (d *situationDocument) toModel() *model.Situation {
	return &model.Situation{
		ID:              model.SituationID(d.ID),
		Description:     d.Description,
		Industry:        d.Industry,
		AIType:          d.AIType,
		DeploymentStage: d.DeploymentStage,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type situationRepository struct {
	client *firestore.Client
	cols   *collections
}

func (r *situationRepository) doc(id model.SituationID) *firestore.DocumentRef {
	return r.client.Collection(r.cols.name(CollectionSituations)).Doc(id.String())
}

func (r *situationRepository) Create(ctx context.Context, situation *model.Situation) error {
	doc := &situationDocument{
		ID:              situation.ID.String(),
		Description:     situation.Description,
		Industry:        situation.Industry,
		AIType:          situation.AIType,
		DeploymentStage: situation.DeploymentStage,
		CreatedAt:       situation.CreatedAt,
		UpdatedAt:       situation.UpdatedAt,
	}

	if _, err := r.doc(situation.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrConflict, "situation already exists", goerr.V("id", situation.ID))
		}
		return goerr.Wrap(err, "failed to create situation", goerr.V("id", situation.ID))
	}
	return nil
}

func (r *situationRepository) Get(ctx context.Context, id model.SituationID) (*model.Situation, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get situation", goerr.V("id", id))
	}

	var doc situationDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal situation", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *situationRepository) List(ctx context.Context) ([]*model.Situation, error) {
	iter := r.client.Collection(r.cols.name(CollectionSituations)).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)

	docs, err := decodeAll[situationDocument](iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list situations")
	}

	situations := make([]*model.Situation, len(docs))
	for i, d := range docs {
		situations[i] = d.toModel()
	}
	return situations, nil
}

// Delete removes the situation and all descendants in one transaction
func (r *situationRepository) Delete(ctx context.Context, id model.SituationID) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(r.doc(id)); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get situation", goerr.V("id", id))
		}

		var refs []*firestore.DocumentRef
		risks, err := tx.Documents(r.client.Collection(r.cols.name(CollectionRisks)).
			Where("situation_id", "==", id.String())).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query risks", goerr.V("situation_id", id))
		}

		for _, risk := range risks {
			refs = append(refs, risk.Ref)

			evals, err := tx.Documents(r.client.Collection(r.cols.name(CollectionEvaluations)).
				Where("risk_id", "==", risk.Ref.ID)).GetAll()
			if err != nil {
				return goerr.Wrap(err, "failed to query evaluations", goerr.V("risk_id", risk.Ref.ID))
			}

			for _, eval := range evals {
				refs = append(refs, eval.Ref)
				for _, col := range []string{CollectionCountermeasures, CollectionMetaCountermeasures} {
					children, err := tx.Documents(r.client.Collection(r.cols.name(col)).
						Where("evaluation_id", "==", eval.Ref.ID)).GetAll()
					if err != nil {
						return goerr.Wrap(err, "failed to query evaluation children",
							goerr.V("evaluation_id", eval.Ref.ID), goerr.V("collection", col))
					}
					for _, child := range children {
						refs = append(refs, child.Ref)
					}
				}
			}
		}

		// Firestore requires all reads before the first write
		for _, ref := range refs {
			if err := tx.Delete(ref); err != nil {
				return goerr.Wrap(err, "failed to delete document", goerr.V("path", ref.Path))
			}
		}
		return tx.Delete(r.doc(id))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete situation", goerr.V("id", id))
	}
	return nil
}
