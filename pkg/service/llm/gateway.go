package llm

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

// Gateway implements interfaces.LLM on top of a gollem client. Every call
// opens a fresh session, so calls never share conversation history.
type Gateway struct {
	client   gollem.LLMClient
	provider string
	timeout  time.Duration
}

var _ interfaces.LLM = &Gateway{}

type Option func(*Gateway)

// WithProvider sets the provider name used in logs, metrics and errors
func WithProvider(name string) Option {
	return func(g *Gateway) {
		g.provider = name
	}
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

func NewGateway(client gollem.LLMClient, opts ...Option) *Gateway {
	g := &Gateway{
		client:   client,
		provider: "unknown",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call sends prompt with systemPrompt and returns the concatenated reply text
func (g *Gateway) Call(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.call(ctx, prompt, systemPrompt)
	callDuration.WithLabelValues(g.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		callTotal.WithLabelValues(g.provider, "error").Inc()
		return "", err
	}
	callTotal.WithLabelValues(g.provider, "success").Inc()

	logging.From(ctx).Debug("LLM call completed",
		"provider", g.provider,
		"duration", time.Since(start),
		"prompt_len", len(prompt),
		"reply_len", len(text),
	)
	return text, nil
}

func (g *Gateway) call(ctx context.Context, prompt, systemPrompt string) (string, error) {
	opts := []gollem.SessionOption{
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	}
	if systemPrompt != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(systemPrompt))
	}

	session, err := g.client.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(ErrProvider, "failed to create LLM session",
			goerr.V("provider", g.provider), goerr.V("error", err.Error()))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(ErrProvider, "failed to generate content",
			goerr.V("provider", g.provider), goerr.V("error", err.Error()))
	}
	if resp == nil {
		return "", goerr.Wrap(ErrProvider, "no response from LLM", goerr.V("provider", g.provider))
	}

	text := strings.Join(resp.Texts, "")
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(ErrProvider, "empty response from LLM", goerr.V("provider", g.provider))
	}
	return text, nil
}
