package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/cli"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/repository/memory"
	"github.com/secmon-lab/riskscope/pkg/service/llm"
	"github.com/secmon-lab/riskscope/pkg/usecase"
)

const validGuidewords = `
[[guideword]]
category = "Data"
name = "Coverage"
description = "Training data does not cover the domain"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestEnvFileArg(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantPath     string
		wantExplicit bool
	}{
		{"default", []string{"riskscope", "serve"}, ".env", false},
		{"separate value", []string{"riskscope", "--env-file", "prod.env", "serve"}, "prod.env", true},
		{"equals form", []string{"riskscope", "--env-file=dev.env", "serve"}, "dev.env", true},
		{"after terminator", []string{"riskscope", "assess", "--", "--env-file=x"}, ".env", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, explicit := cli.EnvFileArg(tt.args)
			gt.Value(t, path).Equal(tt.wantPath)
			gt.Value(t, explicit).Equal(tt.wantExplicit)
		})
	}
}

func TestRun_ValidateCommand(t *testing.T) {
	t.Setenv("RISKSCOPE_ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	t.Run("valid configuration", func(t *testing.T) {
		path := writeFile(t, "guidewords.toml", validGuidewords)
		err := cli.Run(context.Background(), []string{
			"riskscope", "validate",
			"--guideword-file", path,
			"--llm-provider", "claude",
			"--anthropic-api-key", "sk-ant-test",
		}, "test")
		gt.NoError(t, err)
	})

	t.Run("invalid guideword file", func(t *testing.T) {
		path := writeFile(t, "guidewords.toml", `
[[guideword]]
category = "Hardware"
name = "Overheat"
description = "The device overheats"
`)
		err := cli.Run(context.Background(), []string{
			"riskscope", "validate",
			"--guideword-file", path,
			"--llm-provider", "claude",
			"--anthropic-api-key", "sk-ant-test",
		}, "test")
		gt.Error(t, err).Is(model.ErrInvalidGuideword)
	})

	t.Run("missing API key", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"riskscope", "validate",
			"--llm-provider", "claude",
		}, "test")
		gt.Bool(t, errors.Is(err, llm.ErrConfig)).True()
	})

	t.Run("ping memory repository", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"riskscope", "validate",
			"--llm-provider", "claude",
			"--anthropic-api-key", "sk-ant-test",
			"--repository-backend", "memory",
			"--ping",
		}, "test")
		gt.NoError(t, err)
	})
}

func TestRun_EnvFile(t *testing.T) {
	const key = "RISKSCOPE_GUIDEWORD_FILE"
	if _, ok := os.LookupEnv(key); ok {
		t.Skip(key + " is set in the environment")
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	missing := filepath.Join(t.TempDir(), "missing.toml")
	envFile := writeFile(t, "test.env", key+"="+missing+"\n")

	err := cli.Run(context.Background(), []string{
		"riskscope", "--env-file", envFile, "guidewords",
	}, "test")
	gt.Value(t, err).NotNil()

	t.Run("explicit missing env file fails", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"riskscope", "--env-file", filepath.Join(t.TempDir(), "none.env"), "guidewords",
		}, "test")
		gt.Value(t, err).NotNil()
	})
}

func TestRun_GuidewordsCommand(t *testing.T) {
	path := writeFile(t, "guidewords.toml", validGuidewords)
	gt.NoError(t, cli.Run(context.Background(), []string{"riskscope", "guidewords", "--guideword-file", path}, "test"))
	gt.NoError(t, cli.Run(context.Background(), []string{"riskscope", "guidewords", "--json"}, "test"))
}

func TestPrintGuidewords(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	gt.NoError(t, cli.PrintGuidewords(&buf, model.DefaultGuidewords())).Required()

	out := buf.String()
	gt.Bool(t, strings.HasPrefix(out, "Data\n")).True()
	gt.Bool(t, strings.Contains(out, "  Coverage: ")).True()
	gt.Bool(t, strings.Contains(out, "Operation\n")).True()
}

type stubLLM struct{}

func (stubLLM) Call(_ context.Context, prompt, _ string) (string, error) {
	switch {
	case strings.Contains(prompt, `"identified_risks"`):
		return `{"identified_risks": [{"category": "Data", "guideword": "Coverage", "risk_description": "Pedestrians are missed at night", "affected_area": "pedestrians", "confidence": "High"}]}`, nil
	case strings.Contains(prompt, `"meta_approaches"`):
		return `{"meta_approaches": [{"approach": "Limit the scope of impact"}]}`, nil
	case strings.Contains(prompt, `"countermeasures"`):
		return `{"countermeasures": [{"strategy_type": "SeverityReduction", "description": "cap speed at night", "priority": 5, "feasibility": "High", "implementation_timeline": "Short term"}]}`, nil
	case strings.Contains(prompt, `"severity_score"`):
		return `{"severity_score": 5, "rationale": "fatal"}`, nil
	case strings.Contains(prompt, `"frequency_score"`):
		return `{"frequency_score": 2, "rationale": "rare"}`, nil
	default:
		return `{"avoidability_score": 3, "rationale": "some reaction time"}`, nil
	}
}

func TestRunAssessment(t *testing.T) {
	color.NoColor = true
	uc := usecase.New(memory.New(), stubLLM{})

	report, err := cli.RunAssessment(context.Background(), uc, usecase.SituationInput{
		Description: "night pedestrian collision",
		Industry:    "automotive",
	}, nil, true)
	gt.NoError(t, err).Required()

	gt.Array(t, report.Risks).Length(1).Required()
	rr := report.Risks[0]
	gt.Value(t, rr.Evaluation.RiskLevel).Equal(types.RiskLevelLow)
	gt.Array(t, rr.Countermeasures).Length(1)
	// severity 5 and avoidability 3 reach the meta threshold
	gt.Array(t, rr.MetaCountermeasures).Length(2).Required()
	gt.Array(t, rr.MetaCountermeasures[0].Countermeasures).Length(1)

	var buf bytes.Buffer
	gt.NoError(t, cli.PrintReport(&buf, report)).Required()
	out := buf.String()
	gt.Bool(t, strings.Contains(out, "Situation: night pedestrian collision")).True()
	gt.Bool(t, strings.Contains(out, "Low score 1.20 (S5 F2 A3)")).True()
	gt.Bool(t, strings.Contains(out, "- [P5 High] cap speed at night")).True()
	gt.Bool(t, strings.Contains(out, "Limit the scope of impact")).True()
}

func TestPrintReport_Unevaluated(t *testing.T) {
	color.NoColor = true
	report := &model.Report{
		Situation: model.NewSituation("chat assistant", "", "", ""),
		Risks: []*model.RiskReport{{
			Risk: &model.IdentifiedRisk{Category: types.GuidewordCategoryOperation, Guideword: "Misuse", Description: "fake reviews"},
		}},
	}
	report.Summarize()

	var buf bytes.Buffer
	gt.NoError(t, cli.PrintReport(&buf, report)).Required()
	gt.Bool(t, strings.Contains(buf.String(), "not evaluated")).True()
	gt.Bool(t, strings.Contains(buf.String(), "1 identified, 0 evaluated")).True()
}
