package interfaces

import (
	"context"

	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

// Notifier announces evaluation results to people outside the API
type Notifier interface {
	NotifyEvaluation(ctx context.Context, situation *model.Situation, risk *model.IdentifiedRisk, evaluation *model.RiskEvaluation) error
}

// ReportStorage persists exported reports and returns their location
type ReportStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
