package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// Notifier posts evaluation results to a single Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL points the client at another Slack API endpoint. The URL must end with "/".
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a Notifier with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var apiOpts []slack.Option
	if o.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, apiOpts...),
		channelID: channelID,
	}, nil
}

// NotifyEvaluation posts a Block Kit summary of the evaluation
func (n *Notifier) NotifyEvaluation(ctx context.Context, situation *model.Situation, risk *model.IdentifiedRisk, evaluation *model.RiskEvaluation) error {
	blocks := buildEvaluationBlocks(situation, risk, evaluation)
	text := fallbackText(risk, evaluation)

	_, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel_id", n.channelID),
			goerr.V("evaluation_id", evaluation.ID),
		)
	}

	logging.From(ctx).Info("evaluation notified to Slack",
		"channel_id", n.channelID,
		"evaluation_id", evaluation.ID,
		"ts", ts,
	)
	return nil
}
