package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = model.ErrNotFound

// PostgreSQL error codes mapped to domain errors
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

type Postgres struct {
	pool           *pgxpool.Pool
	situation      *situationRepository
	risk           *riskRepository
	evaluation     *evaluationRepository
	countermeasure *countermeasureRepository
	meta           *metaCountermeasureRepository
}

var _ interfaces.Repository = &Postgres{}

// New connects to databaseURL. The schema is not created here; run Migrate
// or the migrate command first.
func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}

	return &Postgres{
		pool:           pool,
		situation:      &situationRepository{pool: pool},
		risk:           &riskRepository{pool: pool},
		evaluation:     &evaluationRepository{pool: pool},
		countermeasure: &countermeasureRepository{pool: pool},
		meta:           &metaCountermeasureRepository{pool: pool},
	}, nil
}

func (p *Postgres) Situation() interfaces.SituationRepository {
	return p.situation
}

func (p *Postgres) Risk() interfaces.RiskRepository {
	return p.risk
}

func (p *Postgres) Evaluation() interfaces.EvaluationRepository {
	return p.evaluation
}

func (p *Postgres) Countermeasure() interfaces.CountermeasureRepository {
	return p.countermeasure
}

func (p *Postgres) MetaCountermeasure() interfaces.MetaCountermeasureRepository {
	return p.meta
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return goerr.Wrap(err, "failed to reach postgres")
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// withTx runs fn in a transaction, committing only when fn succeeds
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// translate maps constraint violations to domain errors
func translate(err error, msg string, values ...goerr.Option) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			values = append(values, goerr.V("constraint", pgErr.ConstraintName))
			return goerr.Wrap(ErrNotFound, msg+": parent record not found", values...)
		case codeUniqueViolation:
			values = append(values, goerr.V("constraint", pgErr.ConstraintName))
			return goerr.Wrap(model.ErrConflict, msg+": duplicate record", values...)
		}
	}
	return goerr.Wrap(err, msg, values...)
}

// nullIfEmpty stores empty strings as NULL for nullable foreign keys
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
