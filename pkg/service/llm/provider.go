package llm

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"

	DefaultOpenAIModel    = "gpt-4"
	DefaultClaudeModel    = "claude-3-opus-20240229"
	DefaultGeminiLocation = "us-central1"
)

// Providers returns the supported provider names
func Providers() []string {
	return []string{ProviderOpenAI, ProviderClaude, ProviderGemini}
}

// Config selects and parameterizes an LLM provider
type Config struct {
	Provider  string
	APIKey    string `masq:"secret"`
	Model     string
	ProjectID string
	Location  string
	Timeout   time.Duration
}

// NewClient builds the gollem client for cfg.Provider
func NewClient(ctx context.Context, cfg Config) (gollem.LLMClient, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, goerr.Wrap(ErrConfig, "OpenAI API key is required", goerr.V("provider", cfg.Provider))
		}
		model := cfg.Model
		if model == "" {
			model = DefaultOpenAIModel
		}
		client, err := openai.New(ctx, cfg.APIKey, openai.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(ErrConfig, "failed to create OpenAI client", goerr.V("error", err.Error()))
		}
		return client, nil

	case ProviderClaude:
		if cfg.APIKey == "" {
			return nil, goerr.Wrap(ErrConfig, "Anthropic API key is required", goerr.V("provider", cfg.Provider))
		}
		model := cfg.Model
		if model == "" {
			model = DefaultClaudeModel
		}
		client, err := claude.New(ctx, cfg.APIKey, claude.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(ErrConfig, "failed to create Claude client", goerr.V("error", err.Error()))
		}
		return client, nil

	case ProviderGemini:
		if cfg.ProjectID == "" {
			return nil, goerr.Wrap(ErrConfig, "Google Cloud project ID is required for Gemini", goerr.V("provider", cfg.Provider))
		}
		location := cfg.Location
		if location == "" {
			location = DefaultGeminiLocation
		}
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.New(ctx, cfg.ProjectID, location, opts...)
		if err != nil {
			return nil, goerr.Wrap(ErrConfig, "failed to create Gemini client", goerr.V("error", err.Error()))
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrConfig, "unsupported LLM provider",
			goerr.V("provider", cfg.Provider), goerr.V("supported", Providers()))
	}
}

// New builds a Gateway for the provider described by cfg
func New(ctx context.Context, cfg Config) (*Gateway, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewGateway(client, WithProvider(cfg.Provider), WithTimeout(cfg.Timeout)), nil
}
