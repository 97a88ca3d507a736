package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
)

// Schema creates every table the repository uses. Statements are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS situations (
		id               TEXT PRIMARY KEY,
		description      TEXT NOT NULL,
		industry         TEXT NOT NULL DEFAULT '',
		ai_type          TEXT NOT NULL DEFAULT '',
		deployment_stage TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS identified_risks (
		id               TEXT PRIMARY KEY,
		situation_id     TEXT NOT NULL REFERENCES situations(id) ON DELETE CASCADE,
		category         TEXT NOT NULL,
		guideword        TEXT NOT NULL,
		risk_description TEXT NOT NULL,
		affected_area    TEXT NOT NULL DEFAULT '',
		confidence_score DOUBLE PRECISION NOT NULL,
		rank             INTEGER NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS identified_risks_situation_idx
		ON identified_risks (situation_id, created_at, rank)`,
	`CREATE TABLE IF NOT EXISTS risk_evaluations (
		id                     TEXT PRIMARY KEY,
		risk_id                TEXT NOT NULL UNIQUE REFERENCES identified_risks(id) ON DELETE CASCADE,
		severity_score         INTEGER NOT NULL CHECK (severity_score BETWEEN 1 AND 5),
		severity_rationale     TEXT NOT NULL,
		frequency_score        INTEGER NOT NULL CHECK (frequency_score BETWEEN 1 AND 5),
		frequency_rationale    TEXT NOT NULL,
		avoidability_score     INTEGER NOT NULL CHECK (avoidability_score BETWEEN 1 AND 5),
		avoidability_rationale TEXT NOT NULL,
		risk_level             TEXT NOT NULL,
		normalized_score       DOUBLE PRECISION NOT NULL,
		evaluated_at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS meta_countermeasures (
		id            TEXT PRIMARY KEY,
		evaluation_id TEXT NOT NULL REFERENCES risk_evaluations(id) ON DELETE CASCADE,
		target_axis   TEXT NOT NULL,
		meta_approach TEXT NOT NULL,
		example       TEXT NOT NULL DEFAULT '',
		priority      INTEGER NOT NULL,
		applicability TEXT NOT NULL,
		rank          INTEGER NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS meta_countermeasures_evaluation_idx
		ON meta_countermeasures (evaluation_id, created_at, rank)`,
	`CREATE TABLE IF NOT EXISTS countermeasures (
		id                      TEXT PRIMARY KEY,
		evaluation_id           TEXT NOT NULL REFERENCES risk_evaluations(id) ON DELETE CASCADE,
		meta_id                 TEXT REFERENCES meta_countermeasures(id) ON DELETE CASCADE,
		strategy_type           TEXT NOT NULL,
		description             TEXT NOT NULL,
		priority                INTEGER NOT NULL,
		feasibility             TEXT NOT NULL,
		implementation_timeline TEXT NOT NULL,
		expected_effect         TEXT NOT NULL DEFAULT '',
		rank                    INTEGER NOT NULL,
		created_at              TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS countermeasures_evaluation_idx
		ON countermeasures (evaluation_id, created_at, rank)`,
	`CREATE INDEX IF NOT EXISTS countermeasures_meta_idx
		ON countermeasures (meta_id, created_at, rank)`,
}

// Migrate applies Schema in a single transaction
func (p *Postgres) Migrate(ctx context.Context) error {
	return withTx(ctx, p.pool, func(tx pgx.Tx) error {
		for i, stmt := range Schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return goerr.Wrap(err, "failed to apply schema statement", goerr.V("index", i))
			}
		}
		return nil
	})
}
