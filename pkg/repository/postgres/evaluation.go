package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type evaluationRepository struct {
	pool *pgxpool.Pool
}

const evaluationColumns = `id, risk_id, severity_score, severity_rationale, frequency_score, frequency_rationale,
	avoidability_score, avoidability_rationale, risk_level, normalized_score, evaluated_at`

func scanEvaluation(row pgx.Row) (*model.RiskEvaluation, error) {
	var e model.RiskEvaluation
	if err := row.Scan(&e.ID, &e.RiskID, &e.SeverityScore, &e.SeverityRationale, &e.FrequencyScore,
		&e.FrequencyRationale, &e.AvoidabilityScore, &e.AvoidabilityRationale, &e.RiskLevel,
		&e.NormalizedScore, &e.EvaluatedAt); err != nil {
		return nil, err
	}
	e.EvaluatedAt = e.EvaluatedAt.UTC()
	return &e, nil
}

func (r *evaluationRepository) Create(ctx context.Context, e *model.RiskEvaluation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO risk_evaluations (`+evaluationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.RiskID, e.SeverityScore, e.SeverityRationale, e.FrequencyScore, e.FrequencyRationale,
		e.AvoidabilityScore, e.AvoidabilityRationale, e.RiskLevel, e.NormalizedScore, e.EvaluatedAt)
	if err != nil {
		return translate(err, "failed to create evaluation", goerr.V("id", e.ID), goerr.V("risk_id", e.RiskID))
	}
	return nil
}

func (r *evaluationRepository) Get(ctx context.Context, id model.EvaluationID) (*model.RiskEvaluation, error) {
	e, err := scanEvaluation(r.pool.QueryRow(ctx, `SELECT `+evaluationColumns+` FROM risk_evaluations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get evaluation", goerr.V("id", id))
	}
	return e, nil
}

func (r *evaluationRepository) GetByRisk(ctx context.Context, riskID model.RiskID) (*model.RiskEvaluation, error) {
	e, err := scanEvaluation(r.pool.QueryRow(ctx, `SELECT `+evaluationColumns+` FROM risk_evaluations WHERE risk_id = $1`, riskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("risk_id", riskID))
		}
		return nil, goerr.Wrap(err, "failed to get evaluation", goerr.V("risk_id", riskID))
	}
	return e, nil
}
