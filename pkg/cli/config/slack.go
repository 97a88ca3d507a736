package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for evaluation notifications
type Slack struct {
	botToken    string
	channelID   string
	notifyLevel string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (chat:write scope)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKSCOPE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving evaluation notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("RISKSCOPE_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-notify-level",
			Usage:       "Minimum risk level to notify (High, Medium, Low)",
			Category:    "Slack",
			Value:       string(types.RiskLevelHigh),
			Destination: &x.notifyLevel,
			Sources:     cli.EnvVars("RISKSCOPE_SLACK_NOTIFY_LEVEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.String("notify-level", x.notifyLevel),
	)
}

// IsConfigured returns true when notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns the notifier and minimum level, or a nil notifier when
// Slack is not configured. Setting only one of token and channel is an error.
func (x *Slack) Configure() (*slack.Notifier, types.RiskLevel, error) {
	level, err := types.ParseRiskLevel(x.notifyLevel)
	if err != nil {
		return nil, "", goerr.Wrap(ErrInvalidConfig, "invalid slack-notify-level", goerr.V("level", x.notifyLevel))
	}

	if x.botToken == "" && x.channelID == "" {
		return nil, level, nil
	}
	if !x.IsConfigured() {
		return nil, "", goerr.Wrap(ErrMissingSetting, "slack-bot-token and slack-channel-id must be set together")
	}

	notifier, err := slack.New(x.botToken, x.channelID)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create Slack notifier")
	}
	return notifier, level, nil
}
