package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/repository/firestore"
	"github.com/secmon-lab/riskscope/pkg/repository/postgres"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/secmon-lab/riskscope/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate database schema or indexes",
		Commands: []*cli.Command{
			cmdMigrateFirestore(),
			cmdMigratePostgres(),
		},
	}
}

func cmdMigrateFirestore() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:  "firestore",
		Usage: "Migrate Firestore composite indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("RISKSCOPE_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("RISKSCOPE_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for Firestore collection names",
				Sources:     cli.EnvVars("RISKSCOPE_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			indexConfig := firestore.IndexConfig(collectionPrefix)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if !dryRun {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
				return nil
			}

			logger.Info("Dry run mode - previewing changes")
			plan, err := client.GetMigrationPlan(ctx, indexConfig)
			if err != nil {
				return goerr.Wrap(err, "failed to create migration plan")
			}
			if len(plan.Steps) == 0 {
				logger.Info("No changes required")
				return nil
			}
			for _, step := range plan.Steps {
				logger.Info("Migration step",
					"collection", step.Collection,
					"operation", step.Operation,
					"description", step.Description,
					"destructive", step.Destructive)
			}
			return nil
		},
	}
}

func cmdMigratePostgres() *cli.Command {
	var databaseURL string
	var dryRun bool

	return &cli.Command{
		Name:  "postgres",
		Usage: "Create PostgreSQL tables and indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "postgres-url",
				Usage:       "PostgreSQL connection URL",
				Sources:     cli.EnvVars("RISKSCOPE_POSTGRES_URL", "DATABASE_URL"),
				Destination: &databaseURL,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Print the DDL without connecting",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if dryRun {
				for _, stmt := range postgres.Schema {
					if _, err := fmt.Fprintf(c.Root().Writer, "%s;\n\n", stmt); err != nil {
						return goerr.Wrap(err, "failed to write DDL")
					}
				}
				return nil
			}

			if databaseURL == "" {
				return goerr.New("postgres-url is required")
			}

			repo, err := postgres.New(ctx, databaseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to connect to PostgreSQL")
			}
			defer safe.Close(ctx, repo, "repository")

			if err := repo.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply schema")
			}
			logging.Default().Info("PostgreSQL schema applied", "statements", len(postgres.Schema))
			return nil
		},
	}
}
