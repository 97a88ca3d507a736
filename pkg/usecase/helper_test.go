package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

type llmCall struct {
	prompt       string
	systemPrompt string
}

// mockLLM records every call and answers with respond
type mockLLM struct {
	mu      sync.Mutex
	calls   []llmCall
	respond func(prompt, systemPrompt string) (string, error)
}

func (m *mockLLM) Call(_ context.Context, prompt, systemPrompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, llmCall{prompt: prompt, systemPrompt: systemPrompt})
	m.mu.Unlock()

	if m.respond == nil {
		return "", fmt.Errorf("unexpected LLM call")
	}
	return m.respond(prompt, systemPrompt)
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].prompt
}

func replyWith(reply string) func(string, string) (string, error) {
	return func(string, string) (string, error) {
		return reply, nil
	}
}

// axisReplies answers each evaluation prompt with the score for its axis
func axisReplies(severity, frequency, avoidability int) func(string, string) (string, error) {
	return func(prompt, _ string) (string, error) {
		switch {
		case strings.Contains(prompt, `"severity_score"`):
			return fmt.Sprintf(`{"severity_score": %d, "rationale": "severity reason"}`, severity), nil
		case strings.Contains(prompt, `"frequency_score"`):
			return fmt.Sprintf(`{"frequency_score": %d, "rationale": "frequency reason"}`, frequency), nil
		case strings.Contains(prompt, `"avoidability_score"`):
			return fmt.Sprintf(`{"avoidability_score": %d, "rationale": "avoidability reason"}`, avoidability), nil
		default:
			return "", fmt.Errorf("unexpected prompt")
		}
	}
}

type mockNotifier struct {
	mu          sync.Mutex
	evaluations []*model.RiskEvaluation
	err         error
}

func (m *mockNotifier) NotifyEvaluation(_ context.Context, _ *model.Situation, _ *model.IdentifiedRisk, e *model.RiskEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations = append(m.evaluations, e)
	return m.err
}

type storedObject struct {
	key         string
	data        []byte
	contentType string
}

type mockStorage struct {
	objects []storedObject
}

func (m *mockStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	m.objects = append(m.objects, storedObject{key: key, data: data, contentType: contentType})
	return "mock://bucket/" + key, nil
}

func seedSituation(t *testing.T, repo interfaces.Repository) *model.Situation {
	t.Helper()
	s := model.NewSituation("Autonomous shuttle detecting pedestrians at night", "automotive", "vision", "pilot")
	gt.NoError(t, repo.Situation().Create(context.Background(), s)).Required()
	return s
}

func seedRisk(t *testing.T, repo interfaces.Repository, situationID model.SituationID) *model.IdentifiedRisk {
	t.Helper()
	r := &model.IdentifiedRisk{
		ID:              model.NewRiskID(),
		SituationID:     situationID,
		Category:        types.GuidewordCategoryData,
		Guideword:       "Coverage",
		Description:     "There is a possibility that pedestrians in dark clothing are missed",
		AffectedArea:    "road safety",
		ConfidenceScore: 0.9,
	}
	gt.NoError(t, repo.Risk().CreateMany(context.Background(), situationID, []*model.IdentifiedRisk{r})).Required()
	return r
}

func seedEvaluation(t *testing.T, repo interfaces.Repository, riskID model.RiskID, severity, frequency, avoidability int) *model.RiskEvaluation {
	t.Helper()
	e := model.NewRiskEvaluation(riskID,
		model.AxisScore{Score: severity, Rationale: "s"},
		model.AxisScore{Score: frequency, Rationale: "f"},
		model.AxisScore{Score: avoidability, Rationale: "a"},
	)
	gt.NoError(t, repo.Evaluation().Create(context.Background(), e)).Required()
	return e
}
