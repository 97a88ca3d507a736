package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/cli/config"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/secmon-lab/riskscope/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var guidewordCfg config.Guideword
	var llmCfg config.LLM
	var repoCfg config.Repository
	var ping bool

	var flags []cli.Flag
	flags = append(flags, guidewordCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "ping",
		Usage:       "Also connect to the repository backend",
		Destination: &ping,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate guideword file and LLM configuration, and optionally check the repository",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			catalog, err := guidewordCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "guideword validation failed")
			}
			source := guidewordCfg.Path()
			if source == "" {
				source = "built-in"
			}
			logger.Info("Guideword catalog validated", "source", source, "count", catalog.Len())

			if _, err := llmCfg.Configure(ctx); err != nil {
				return goerr.Wrap(err, "LLM configuration validation failed")
			}
			logger.Info("LLM configuration validated", "llm", llmCfg)

			if !ping {
				logger.Info("Repository check skipped")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			if err := repo.Ping(ctx); err != nil {
				return goerr.Wrap(err, "repository is not reachable", goerr.V("backend", repoCfg.Backend()))
			}
			logger.Info("Repository reachable", "backend", repoCfg.Backend())
			return nil
		},
	}
}
