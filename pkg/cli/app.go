package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/cli/config"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// appConfig groups the configuration needed to run the pipeline
type appConfig struct {
	llm       config.LLM
	repo      config.Repository
	slack     config.Slack
	storage   config.Storage
	guideword config.Guideword
}

func (a *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, a.llm.Flags()...)
	flags = append(flags, a.repo.Flags()...)
	flags = append(flags, a.slack.Flags()...)
	flags = append(flags, a.storage.Flags()...)
	flags = append(flags, a.guideword.Flags()...)
	return flags
}

// Configure builds the use cases. The caller must Close the returned repository.
func (a *appConfig) Configure(ctx context.Context) (*usecase.UseCases, interfaces.Repository, error) {
	logger := logging.Default()

	catalog, err := a.guideword.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load guideword catalog")
	}

	gateway, err := a.llm.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure LLM")
	}
	logger.Info("LLM configured", "llm", a.llm)

	notifier, level, err := a.slack.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure Slack")
	}

	reportStorage, err := a.storage.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure report storage")
	}

	repo, err := a.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	opts := []usecase.Option{usecase.WithGuidewordCatalog(catalog)}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier, level))
		logger.Info("Slack notification enabled", "slack", a.slack)
	}
	if reportStorage != nil {
		opts = append(opts, usecase.WithReportStorage(reportStorage))
	}

	return usecase.New(repo, gateway, opts...), repo, nil
}
