package cli

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/cli/config"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const defaultEnvFile = ".env"

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var envFile string
	var closers []func()

	// Flag env sources are resolved while parsing, so the env file has to be
	// loaded before the app runs.
	if err := loadEnvFile(args); err != nil {
		logging.Default().Error("failed to load env file", "error", err)
		return err
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "Environment file loaded before flags are parsed",
			Value:       defaultEnvFile,
			Destination: &envFile,
		},
	}
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "riskscope",
		Usage:   "AI deployment risk assessment pipeline",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLog, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLog)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting riskscope",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg,
				"env_file", envFile,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(version),
			cmdMigrate(),
			cmdValidate(),
			cmdGuidewords(),
			cmdAssess(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// loadEnvFile loads --env-file, or .env when the flag is absent. A missing
// default file is ignored; a missing explicit file is an error. Variables
// already set in the environment win.
func loadEnvFile(args []string) error {
	path, explicit := envFileArg(args)
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path))
	}
	return nil
}

func envFileArg(args []string) (string, bool) {
	for i, arg := range args {
		switch {
		case arg == "--":
			return defaultEnvFile, false
		case arg == "--env-file" || arg == "-env-file":
			if i+1 < len(args) {
				return args[i+1], true
			}
		case strings.HasPrefix(arg, "--env-file="):
			return strings.TrimPrefix(arg, "--env-file="), true
		case strings.HasPrefix(arg, "-env-file="):
			return strings.TrimPrefix(arg, "-env-file="), true
		}
	}
	return defaultEnvFile, false
}
