package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

type countermeasureRepository struct {
	pool *pgxpool.Pool
}

const countermeasureColumns = `id, evaluation_id, meta_id, strategy_type, description, priority, feasibility,
	implementation_timeline, expected_effect, rank, created_at`

func scanCountermeasure(row pgx.Row) (*model.Countermeasure, error) {
	var cm model.Countermeasure
	var metaID *string
	if err := row.Scan(&cm.ID, &cm.EvaluationID, &metaID, &cm.StrategyType, &cm.Description, &cm.Priority,
		&cm.Feasibility, &cm.ImplementationTimeline, &cm.ExpectedEffect, &cm.Rank, &cm.CreatedAt); err != nil {
		return nil, err
	}
	if metaID != nil {
		cm.MetaCountermeasureID = model.MetaCountermeasureID(*metaID)
	}
	cm.CreatedAt = cm.CreatedAt.UTC()
	return &cm, nil
}

func (r *countermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, measures []*model.Countermeasure) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM risk_evaluations WHERE id = $1)`, evaluationID).Scan(&exists); err != nil {
			return goerr.Wrap(err, "failed to check evaluation", goerr.V("id", evaluationID))
		}
		if !exists {
			return goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", evaluationID))
		}

		batch := &pgx.Batch{}
		for _, cm := range measures {
			if cm.EvaluationID != evaluationID {
				return goerr.New("countermeasure belongs to another evaluation",
					goerr.V("measure_id", cm.ID), goerr.V("evaluation_id", cm.EvaluationID))
			}
			batch.Queue(`
				INSERT INTO countermeasures (`+countermeasureColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`, cm.ID, cm.EvaluationID, nullIfEmpty(cm.MetaCountermeasureID.String()), cm.StrategyType, cm.Description,
				cm.Priority, cm.Feasibility, cm.ImplementationTimeline, cm.ExpectedEffect, cm.Rank, cm.CreatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for range measures {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return translate(err, "failed to insert countermeasure", goerr.V("evaluation_id", evaluationID))
			}
		}
		if err := results.Close(); err != nil {
			return goerr.Wrap(err, "failed to close batch")
		}
		return nil
	})
}

func (r *countermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.Countermeasure, error) {
	return r.list(ctx, `evaluation_id`, evaluationID.String())
}

func (r *countermeasureRepository) ListByMeta(ctx context.Context, metaID model.MetaCountermeasureID) ([]*model.Countermeasure, error) {
	return r.list(ctx, `meta_id`, metaID.String())
}

// list filters on column, which is always a constant chosen by the caller
func (r *countermeasureRepository) list(ctx context.Context, column, value string) ([]*model.Countermeasure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+countermeasureColumns+` FROM countermeasures
		WHERE `+column+` = $1
		ORDER BY created_at, rank
	`, value)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list countermeasures", goerr.V(column, value))
	}
	defer rows.Close()

	var measures []*model.Countermeasure
	for rows.Next() {
		cm, err := scanCountermeasure(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan countermeasure")
		}
		measures = append(measures, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate countermeasures")
	}
	return measures, nil
}

type metaCountermeasureRepository struct {
	pool *pgxpool.Pool
}

const metaColumns = `id, evaluation_id, target_axis, meta_approach, example, priority, applicability, rank, created_at`

func scanMeta(row pgx.Row) (*model.MetaCountermeasure, error) {
	var m model.MetaCountermeasure
	if err := row.Scan(&m.ID, &m.EvaluationID, &m.TargetAxis, &m.Approach, &m.Example, &m.Priority,
		&m.Applicability, &m.Rank, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}

func (r *metaCountermeasureRepository) CreateMany(ctx context.Context, evaluationID model.EvaluationID, metas []*model.MetaCountermeasure) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM risk_evaluations WHERE id = $1)`, evaluationID).Scan(&exists); err != nil {
			return goerr.Wrap(err, "failed to check evaluation", goerr.V("id", evaluationID))
		}
		if !exists {
			return goerr.Wrap(ErrNotFound, "evaluation not found", goerr.V("id", evaluationID))
		}

		batch := &pgx.Batch{}
		for _, m := range metas {
			if m.EvaluationID != evaluationID {
				return goerr.New("meta-countermeasure belongs to another evaluation",
					goerr.V("meta_id", m.ID), goerr.V("evaluation_id", m.EvaluationID))
			}
			batch.Queue(`
				INSERT INTO meta_countermeasures (`+metaColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, m.ID, m.EvaluationID, m.TargetAxis, m.Approach, m.Example, m.Priority, m.Applicability, m.Rank, m.CreatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for range metas {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return translate(err, "failed to insert meta-countermeasure", goerr.V("evaluation_id", evaluationID))
			}
		}
		if err := results.Close(); err != nil {
			return goerr.Wrap(err, "failed to close batch")
		}
		return nil
	})
}

func (r *metaCountermeasureRepository) Get(ctx context.Context, id model.MetaCountermeasureID) (*model.MetaCountermeasure, error) {
	m, err := scanMeta(r.pool.QueryRow(ctx, `SELECT `+metaColumns+` FROM meta_countermeasures WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "meta-countermeasure not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get meta-countermeasure", goerr.V("id", id))
	}
	return m, nil
}

func (r *metaCountermeasureRepository) ListByEvaluation(ctx context.Context, evaluationID model.EvaluationID) ([]*model.MetaCountermeasure, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+metaColumns+` FROM meta_countermeasures
		WHERE evaluation_id = $1
		ORDER BY created_at, rank
	`, evaluationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list meta-countermeasures", goerr.V("evaluation_id", evaluationID))
	}
	defer rows.Close()

	var metas []*model.MetaCountermeasure
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan meta-countermeasure")
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate meta-countermeasures")
	}
	return metas, nil
}
