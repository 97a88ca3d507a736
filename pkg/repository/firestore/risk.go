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

type riskDocument struct {
	ID              string    `firestore:"id"`
	SituationID     string    `firestore:"situation_id"`
	Category        string    `firestore:"category"`
	Guideword       string    `firestore:"guideword"`
	Description     string    `firestore:"risk_description"`
	AffectedArea    string    `firestore:"affected_area"`
	ConfidenceScore float64   `firestore:"confidence_score"`
	Rank            int       `firestore:"rank"`
	CreatedAt       time.Time `firestore:"created_at"`
}

func (d *riskDocument) toModel() *model.IdentifiedRisk {
	return &model.IdentifiedRisk{
		ID:              model.RiskID(d.ID),
		SituationID:     model.SituationID(d.SituationID),
		Category:        types.GuidewordCategory(d.Category),
		Guideword:       d.Guideword,
		Description:     d.Description,
		AffectedArea:    d.AffectedArea,
		ConfidenceScore: d.ConfidenceScore,
		Rank:            d.Rank,
		CreatedAt:       d.CreatedAt,
	}
}

type riskRepository struct {
	client *firestore.Client
	cols   *collections
}

func (r *riskRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.cols.name(CollectionRisks))
}

func (r *riskRepository) CreateMany(ctx context.Context, situationID model.SituationID, risks []*model.IdentifiedRisk) error {
	parent := r.client.Collection(r.cols.name(CollectionSituations)).Doc(situationID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(parent); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", situationID))
			}
			return goerr.Wrap(err, "failed to get situation", goerr.V("id", situationID))
		}

		for _, risk := range risks {
			if risk.SituationID != situationID {
				return goerr.New("risk belongs to another situation",
					goerr.V("risk_id", risk.ID), goerr.V("situation_id", risk.SituationID))
			}
			doc := &riskDocument{
				ID:              risk.ID.String(),
				SituationID:     situationID.String(),
				Category:        risk.Category.String(),
				Guideword:       risk.Guideword,
				Description:     risk.Description,
				AffectedArea:    risk.AffectedArea,
				ConfidenceScore: risk.ConfidenceScore,
				Rank:            risk.Rank,
				CreatedAt:       risk.CreatedAt,
			}
			if err := tx.Create(r.collection().Doc(doc.ID), doc); err != nil {
				return goerr.Wrap(err, "failed to create risk", goerr.V("id", risk.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store risks", goerr.V("situation_id", situationID))
	}
	return nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.IdentifiedRisk, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *riskRepository) ListBySituation(ctx context.Context, situationID model.SituationID) ([]*model.IdentifiedRisk, error) {
	iter := r.collection().
		Where("situation_id", "==", situationID.String()).
		OrderBy("created_at", firestore.Asc).
		OrderBy("rank", firestore.Asc).
		Documents(ctx)

	docs, err := decodeAll[riskDocument](iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V("situation_id", situationID))
	}

	risks := make([]*model.IdentifiedRisk, len(docs))
	for i, d := range docs {
		risks[i] = d.toModel()
	}
	return risks, nil
}
