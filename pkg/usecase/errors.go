package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrSituationNotFound          = errors.New("situation not found")
	ErrRiskNotFound               = errors.New("risk not found")
	ErrEvaluationNotFound         = errors.New("evaluation not found")
	ErrMetaCountermeasureNotFound = errors.New("meta-countermeasure not found")

	// State errors
	ErrAlreadyEvaluated = errors.New("risk is already evaluated")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Optional features
	ErrStorageNotConfigured = errors.New("report storage is not configured")
)

// Context keys for error values
const (
	SituationIDKey  = "situation_id"
	RiskIDKey       = "risk_id"
	EvaluationIDKey = "evaluation_id"
	MetaIDKey       = "meta_id"
)

// translateNotFound replaces a repository not-found error with the use case
// sentinel so callers can classify it without knowing the backend
func translateNotFound(err error, sentinel error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, model.ErrNotFound) {
		return goerr.Wrap(sentinel, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}
