package model

import (
	"time"

	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

// IdentifiedRisk is a candidate risk produced by the identification stage
type IdentifiedRisk struct {
	ID              RiskID                  `json:"risk_id"`
	SituationID     SituationID             `json:"situation_id"`
	Category        types.GuidewordCategory `json:"category"`
	Guideword       string                  `json:"guideword"`
	Description     string                  `json:"risk_description"`
	AffectedArea    string                  `json:"affected_area"`
	ConfidenceScore float64                 `json:"confidence_score"`
	Rank            int                     `json:"-"`
	CreatedAt       time.Time               `json:"created_at"`
}
