package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/secmon-lab/riskscope/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdAssess() *cli.Command {
	var app appConfig
	var input usecase.SituationInput
	var guidewords []string
	var withMeta bool
	var asJSON bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "industry",
			Usage:       "Industry of the deployment",
			Destination: &input.Industry,
		},
		&cli.StringFlag{
			Name:        "ai-type",
			Usage:       "Kind of AI system",
			Destination: &input.AIType,
		},
		&cli.StringFlag{
			Name:        "deployment-stage",
			Usage:       "Deployment stage",
			Destination: &input.DeploymentStage,
		},
		&cli.StringSliceFlag{
			Name:        "guideword",
			Usage:       "Restrict identification to these guidewords (repeatable)",
			Destination: &guidewords,
		},
		&cli.BoolFlag{
			Name:        "meta",
			Usage:       "Also generate meta-countermeasures and their countermeasures",
			Destination: &withMeta,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the report as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, app.Flags()...)

	return &cli.Command{
		Name:      "assess",
		Aliases:   []string{"a"},
		Usage:     "Run the whole assessment pipeline for one situation description",
		ArgsUsage: "DESCRIPTION",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			input.Description = strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if input.Description == "" {
				return goerr.Wrap(usecase.ErrInvalidInput, "situation description is required as argument")
			}

			uc, repo, err := app.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo, "repository")

			report, err := runAssessment(ctx, uc, input, guidewords, withMeta)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return goerr.Wrap(err, "failed to encode report")
				}
				return nil
			}
			return printReport(w, report)
		},
	}
}

// runAssessment creates the situation and drives every stage over each identified risk
func runAssessment(ctx context.Context, uc *usecase.UseCases, input usecase.SituationInput, guidewords []string, withMeta bool) (*model.Report, error) {
	logger := logging.From(ctx)

	situation, err := uc.Situation.CreateSituation(ctx, input)
	if err != nil {
		return nil, err
	}

	risks, err := uc.Identification.IdentifyRisks(ctx, situation.ID, guidewords)
	if err != nil {
		return nil, err
	}
	logger.Info("risks identified", "situation_id", situation.ID, "count", len(risks))

	for _, risk := range risks {
		evaluation, err := uc.Evaluation.EvaluateRisk(ctx, risk.ID)
		if err != nil {
			return nil, err
		}

		if _, err := uc.Countermeasure.GenerateCountermeasures(ctx, evaluation.ID); err != nil {
			return nil, err
		}

		if !withMeta {
			continue
		}
		metas, err := uc.MetaCountermeasure.GenerateMetaCountermeasures(ctx, evaluation.ID)
		if err != nil {
			return nil, err
		}
		for _, meta := range metas {
			if _, err := uc.Countermeasure.GenerateCountermeasuresFromMeta(ctx, meta.ID); err != nil {
				return nil, err
			}
		}
	}

	return uc.Report.BuildReport(ctx, situation.ID)
}

func levelColor(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelHigh:
		return color.New(color.FgRed, color.Bold)
	case types.RiskLevelMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen)
	}
}

func printReport(w io.Writer, report *model.Report) error {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", bold.Sprint("Situation:"), report.Situation.Description)
	fmt.Fprintf(&b, "%s %d identified, %d evaluated", bold.Sprint("Risks:"), report.Summary.TotalRisks, report.Summary.EvaluatedRisks)
	for _, lvl := range types.AllRiskLevels() {
		fmt.Fprintf(&b, ", %s %d", levelColor(lvl).Sprint(lvl), report.Summary.ByLevel[lvl])
	}
	b.WriteString("\n")

	for i, rr := range report.Risks {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. [%s / %s] %s\n", i+1, rr.Risk.Category, rr.Risk.Guideword, rr.Risk.Description)
		fmt.Fprintf(&b, "   %s\n", faint.Sprintf("affected: %s, confidence %.1f", rr.Risk.AffectedArea, rr.Risk.ConfidenceScore))

		if rr.Evaluation == nil {
			fmt.Fprintf(&b, "   %s\n", faint.Sprint("not evaluated"))
			continue
		}
		e := rr.Evaluation
		fmt.Fprintf(&b, "   %s score %.2f (S%d F%d A%d)\n",
			levelColor(e.RiskLevel).Sprint(e.RiskLevel), e.NormalizedScore,
			e.SeverityScore, e.FrequencyScore, e.AvoidabilityScore)

		for _, m := range rr.Countermeasures {
			fmt.Fprintf(&b, "   - [P%d %s] %s\n", m.Priority, m.Feasibility, m.Description)
		}
		for _, node := range rr.MetaCountermeasures {
			fmt.Fprintf(&b, "   * %s: %s\n", bold.Sprint(node.TargetAxis), node.Approach)
			for _, m := range node.Countermeasures {
				fmt.Fprintf(&b, "     - [P%d %s] %s\n", m.Priority, m.Feasibility, m.Description)
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}
	return nil
}
