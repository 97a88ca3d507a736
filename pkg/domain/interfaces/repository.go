package interfaces

import "context"

// Repository defines the interface for data persistence
type Repository interface {
	Situation() SituationRepository
	Risk() RiskRepository
	Evaluation() EvaluationRepository
	Countermeasure() CountermeasureRepository
	MetaCountermeasure() MetaCountermeasureRepository

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
	Close() error
}
