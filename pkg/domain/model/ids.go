package model

import "github.com/google/uuid"

type SituationID string

func NewSituationID() SituationID { return SituationID(uuid.New().String()) }

func (x SituationID) String() string { return string(x) }

type RiskID string

func NewRiskID() RiskID { return RiskID(uuid.New().String()) }

func (x RiskID) String() string { return string(x) }

type EvaluationID string

func NewEvaluationID() EvaluationID { return EvaluationID(uuid.New().String()) }

func (x EvaluationID) String() string { return string(x) }

type CountermeasureID string

func NewCountermeasureID() CountermeasureID { return CountermeasureID(uuid.New().String()) }

func (x CountermeasureID) String() string { return string(x) }

type MetaCountermeasureID string

func NewMetaCountermeasureID() MetaCountermeasureID {
	return MetaCountermeasureID(uuid.New().String())
}

func (x MetaCountermeasureID) String() string { return string(x) }
