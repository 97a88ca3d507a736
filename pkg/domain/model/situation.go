package model

import "time"

// Situation is the user's free-text description of an AI deployment
type Situation struct {
	ID              SituationID `json:"situation_id"`
	Description     string      `json:"description"`
	Industry        string      `json:"industry,omitempty"`
	AIType          string      `json:"ai_type,omitempty"`
	DeploymentStage string      `json:"deployment_stage,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewSituation builds a Situation with a fresh ID and timestamps
func NewSituation(description, industry, aiType, deploymentStage string) *Situation {
	now := time.Now().UTC()
	return &Situation{
		ID:              NewSituationID(),
		Description:     description,
		Industry:        industry,
		AIType:          aiType,
		DeploymentStage: deploymentStage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
