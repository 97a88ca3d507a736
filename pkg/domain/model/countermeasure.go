package model

import (
	"time"

	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

// Countermeasure is a concrete mitigation proposed for an evaluated risk
type Countermeasure struct {
	ID                     CountermeasureID     `json:"measure_id"`
	EvaluationID           EvaluationID         `json:"evaluation_id"`
	MetaCountermeasureID   MetaCountermeasureID `json:"meta_id,omitempty"`
	StrategyType           string               `json:"strategy_type"`
	Description            string               `json:"description"`
	Priority               int                  `json:"priority"`
	Feasibility            types.Level          `json:"feasibility"`
	ImplementationTimeline string               `json:"implementation_timeline"`
	ExpectedEffect         string               `json:"expected_effect"`
	Rank                   int                  `json:"-"`
	CreatedAt              time.Time            `json:"created_at"`
}

// MetaCountermeasure is an abstract mitigation approach targeting one risk axis
type MetaCountermeasure struct {
	ID            MetaCountermeasureID `json:"meta_id"`
	EvaluationID  EvaluationID         `json:"evaluation_id"`
	TargetAxis    types.TargetAxis     `json:"target_axis"`
	Approach      string               `json:"meta_approach"`
	Example       string               `json:"example"`
	Priority      int                  `json:"priority"`
	Applicability types.Level          `json:"applicability"`
	Rank          int                  `json:"-"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Defaults applied when the LLM omits optional meta-countermeasure fields
const (
	DefaultMetaPriority      = 3
	DefaultMetaApplicability = types.LevelMedium
)
