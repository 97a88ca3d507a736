package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/secmon-lab/riskscope/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

// LLM holds CLI flags selecting and authenticating the LLM provider
type LLM struct {
	provider     string
	model        string
	openAIKey    string
	anthropicKey string
	projectID    string
	location     string
	timeout      time.Duration
}

func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (openai, claude, gemini)",
			Category:    "LLM",
			Value:       llm.ProviderOpenAI,
			Sources:     cli.EnvVars("RISKSCOPE_LLM_PROVIDER", "LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name; provider default when empty",
			Category:    "LLM",
			Sources:     cli.EnvVars("RISKSCOPE_LLM_MODEL", "LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("RISKSCOPE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openAIKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("RISKSCOPE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
			Destination: &x.anthropicKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Category:    "LLM",
			Sources:     cli.EnvVars("RISKSCOPE_GEMINI_PROJECT"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Category:    "LLM",
			Value:       llm.DefaultGeminiLocation,
			Sources:     cli.EnvVars("RISKSCOPE_GEMINI_LOCATION"),
			Destination: &x.location,
		},
		&cli.DurationFlag{
			Name:        "llm-timeout",
			Usage:       "Timeout of a single LLM call (0 disables)",
			Category:    "LLM",
			Value:       2 * time.Minute,
			Sources:     cli.EnvVars("RISKSCOPE_LLM_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", x.provider),
		slog.String("model", x.model),
		slog.Int("openai-api-key.len", len(x.openAIKey)),
		slog.Int("anthropic-api-key.len", len(x.anthropicKey)),
		slog.String("gemini-project", x.projectID),
		slog.Duration("timeout", x.timeout),
	)
}

// Config returns the provider configuration, picking the key that matches the provider
func (x *LLM) Config() llm.Config {
	cfg := llm.Config{
		Provider:  x.provider,
		Model:     x.model,
		ProjectID: x.projectID,
		Location:  x.location,
		Timeout:   x.timeout,
	}
	switch x.provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = x.openAIKey
	case llm.ProviderClaude:
		cfg.APIKey = x.anthropicKey
	}
	return cfg
}

// Configure builds the LLM gateway. Missing credentials fail with llm.ErrConfig.
func (x *LLM) Configure(ctx context.Context) (*llm.Gateway, error) {
	return llm.New(ctx, x.Config())
}
