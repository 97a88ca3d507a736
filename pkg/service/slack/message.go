package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/slack-go/slack"
)

// maxSectionText is the Slack limit for a section block text object
const maxSectionText = 3000

// maxFieldText is the Slack limit for a section field text object
const maxFieldText = 2000

var levelEmoji = map[types.RiskLevel]string{
	types.RiskLevelHigh:   ":red_circle:",
	types.RiskLevelMedium: ":large_orange_circle:",
	types.RiskLevelLow:    ":large_green_circle:",
}

func fallbackText(risk *model.IdentifiedRisk, e *model.RiskEvaluation) string {
	return fmt.Sprintf("%s risk (%.2f): %s", e.RiskLevel, e.NormalizedScore,
		truncateToMaxBytes(risk.Description, 200))
}

func buildEvaluationBlocks(situation *model.Situation, risk *model.IdentifiedRisk, e *model.RiskEvaluation) []slack.Block {
	header := fmt.Sprintf("%s %s risk evaluated (%.2f)", levelEmoji[e.RiskLevel], e.RiskLevel, e.NormalizedScore)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes(header, 150), true, false)),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes("*Risk*\n"+risk.Description, maxSectionText), false, false),
			nil, nil,
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			field("Guideword", fmt.Sprintf("%s / %s", risk.Category, risk.Guideword)),
			field("Affected area", risk.AffectedArea),
			field("Severity", fmt.Sprintf("%d/5 %s", e.SeverityScore, e.SeverityRationale)),
			field("Frequency", fmt.Sprintf("%d/5 %s", e.FrequencyScore, e.FrequencyRationale)),
			field("Avoidability", fmt.Sprintf("%d/5 %s", e.AvoidabilityScore, e.AvoidabilityRationale)),
		}, nil),
	}

	if situation != nil {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				truncateToMaxBytes(fmt.Sprintf("Situation `%s`: %s", situation.ID, situation.Description), maxSectionText),
				false, false),
		))
	}
	return blocks
}

func field(title, value string) *slack.TextBlockObject {
	if value == "" {
		value = "-"
	}
	return slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(fmt.Sprintf("*%s*\n%s", title, value), maxFieldText), false, false)
}

// truncateToMaxBytes cuts s to at most max bytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	const ellipsis = "..."
	limit := max - len(ellipsis)
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}
