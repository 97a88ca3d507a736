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

type evaluationDocument struct {
	ID                    string    `firestore:"id"`
	RiskID                string    `firestore:"risk_id"`
	SeverityScore         int       `firestore:"severity_score"`
	SeverityRationale     string    `firestore:"severity_rationale"`
	FrequencyScore        int       `firestore:"frequency_score"`
	FrequencyRationale    string    `firestore:"frequency_rationale"`
	AvoidabilityScore     int       `firestore:"avoidability_score"`
	AvoidabilityRationale string    `firestore:"avoidability_rationale"`
	RiskLevel             string    `firestore:"risk_level"`
	NormalizedScore       float64   `firestore:"normalized_score"`
	EvaluatedAt           time.Time `firestore:"evaluated_at"`
}

func (d *evaluationDocument) toModel() *model.RiskEvaluation {
	return &model.RiskEvaluation{
		ID:                    model.EvaluationID(d.ID),
		RiskID:                model.RiskID(d.RiskID),
		SeverityScore:         d.SeverityScore,
		SeverityRationale:     d.SeverityRationale,
		FrequencyScore:        d.FrequencyScore,
		FrequencyRationale:    d.FrequencyRationale,
		AvoidabilityScore:     d.AvoidabilityScore,
		AvoidabilityRationale: d.AvoidabilityRationale,
		RiskLevel:             types.RiskLevel(d.RiskLevel),
		NormalizedScore:       d.NormalizedScore,
		EvaluatedAt:           d.EvaluatedAt,
	}
}

type evaluationRepository struct {
	client *firestore.Client
	cols   *collections
}

func (r *evaluationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.cols.name(CollectionEvaluations))
}

func (r *evaluationRepository) Create(ctx context.Context, e *model.RiskEvaluation) error {
	parent := r.client.Collection(r.cols.name(CollectionRisks)).Doc(e.RiskID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(parent); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", e.RiskID))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V("id", e.RiskID))
		}

		existing, err := tx.Documents(r.collection().Where("risk_id", "==", e.RiskID.String()).Limit(1)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query evaluations", goerr.V("risk_id", e.RiskID))
		}
		if len(existing) > 0 {
			return goerr.Wrap(model.ErrConflict, "risk is already evaluated",
				goerr.V("risk_id", e.RiskID), goerr.V("evaluation_id", existing[0].Ref.ID))
		}

		doc := &evaluationDocument{
			ID:                    e.ID.String(),
			RiskID:                e.RiskID.String(),
			SeverityScore:         e.SeverityScore,
			SeverityRationale:     e.SeverityRationale,
			FrequencyScore:        e.FrequencyScore,
			FrequencyRationale:    e.FrequencyRationale,
			AvoidabilityScore:     e.AvoidabilityScore,
			AvoidabilityRationale: e.AvoidabilityRationale,
			RiskLevel:             e.RiskLevel.String(),
			NormalizedScore:       e.NormalizedScore,
			EvaluatedAt:           e.EvaluatedAt,
		}
		return tx.Create(r.collection().Doc(doc.ID), doc)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to store evaluation", goerr.V("id", e.ID))
	}
	return nil
}

func (r *evaluationRepository) Get(ctx context.Context, id model.EvaluationID) (*model.RiskEvaluation, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get evaluation", goerr.V("id", id))
	}

	var doc evaluationDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal evaluation", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *evaluationRepository) GetByRisk(ctx context.Context, riskID model.RiskID) (*model.RiskEvaluation, error) {
	docs, err := decodeAll[evaluationDocument](r.collection().
		Where("risk_id", "==", riskID.String()).
		Limit(1).
		Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query evaluation", goerr.V("risk_id", riskID))
	}
	if len(docs) == 0 {
		return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("risk_id", riskID))
	}
	return docs[0].toModel(), nil
}
