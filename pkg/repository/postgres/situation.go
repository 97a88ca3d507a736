package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type situationRepository struct {
	pool *pgxpool.Pool
}

const situationColumns = `id, description, industry, ai_type, deployment_stage, created_at, updated_at`

func scanSituation(row pgx.Row) (*model.Situation, error) {
	var s model.Situation
	if err := row.Scan(&s.ID, &s.Description, &s.Industry, &s.AIType, &s.DeploymentStage, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func (r *situationRepository) Create(ctx context.Context, s *model.Situation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO situations (`+situationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Description, s.Industry, s.AIType, s.DeploymentStage, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return translate(err, "failed to create situation", goerr.V("id", s.ID))
	}
	return nil
}

func (r *situationRepository) Get(ctx context.Context, id model.SituationID) (*model.Situation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+situationColumns+` FROM situations WHERE id = $1`, id)
	s, err := scanSituation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get situation", goerr.V("id", id))
	}
	return s, nil
}

func (r *situationRepository) List(ctx context.Context) ([]*model.Situation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+situationColumns+` FROM situations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list situations")
	}
	defer rows.Close()

	var situations []*model.Situation
	for rows.Next() {
		s, err := scanSituation(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan situation")
		}
		situations = append(situations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate situations")
	}
	return situations, nil
}

// Delete relies on ON DELETE CASCADE for descendants
func (r *situationRepository) Delete(ctx context.Context, id model.SituationID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM situations WHERE id = $1`, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete situation", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "situation not found", goerr.V("id", id))
	}
	return nil
}
