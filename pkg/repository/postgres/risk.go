package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type riskRepository struct {
	pool *pgxpool.Pool
}

const riskColumns = `id, situation_id, category, guideword, risk_description, affected_area, confidence_score, rank, created_at`

func scanRisk(row pgx.Row) (*model.IdentifiedRisk, error) {
	var r model.IdentifiedRisk
	if err := row.Scan(&r.ID, &r.SituationID, &r.Category, &r.Guideword, &r.Description,
		&r.AffectedArea, &r.ConfidenceScore, &r.Rank, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (r *riskRepository) CreateMany(ctx context.Context, situationID model.SituationID, risks []*model.IdentifiedRisk) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM situations WHERE id = $1)`, situationID).Scan(&exists); err != nil {
			return goerr.Wrap(err, "failed to check situation", goerr.V("id", situationID))
		}
		if !exists {
			return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", situationID))
		}

		batch := &pgx.Batch{}
		for _, risk := range risks {
			if risk.SituationID != situationID {
				return goerr.New("risk belongs to another situation",
					goerr.V("risk_id", risk.ID), goerr.V("situation_id", risk.SituationID))
			}
			batch.Queue(`
				INSERT INTO identified_risks (`+riskColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, risk.ID, risk.SituationID, risk.Category, risk.Guideword, risk.Description,
				risk.AffectedArea, risk.ConfidenceScore, risk.Rank, risk.CreatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for range risks {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return translate(err, "failed to insert risk", goerr.V("situation_id", situationID))
			}
		}
		if err := results.Close(); err != nil {
			return goerr.Wrap(err, "failed to close batch")
		}
		return nil
	})
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.IdentifiedRisk, error) {
	risk, err := scanRisk(r.pool.QueryRow(ctx, `SELECT `+riskColumns+` FROM identified_risks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}
	return risk, nil
}

func (r *riskRepository) ListBySituation(ctx context.Context, situationID model.SituationID) ([]*model.IdentifiedRisk, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+riskColumns+` FROM identified_risks
		WHERE situation_id = $1
		ORDER BY created_at, rank
	`, situationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V("situation_id", situationID))
	}
	defer rows.Close()

	var risks []*model.IdentifiedRisk
	for rows.Next() {
		risk, err := scanRisk(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan risk")
		}
		risks = append(risks, risk)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate risks")
	}
	return risks, nil
}
