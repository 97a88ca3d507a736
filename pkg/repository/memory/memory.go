package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
)

// ErrNotFound is returned when the requested record does not exist
var ErrNotFound = model.ErrNotFound

// store holds every table behind one lock so that batch writes and cascades
// are atomic across entities
type store struct {
	mu              sync.RWMutex
	situations      map[model.SituationID]*model.Situation
	risks           map[model.RiskID]*model.IdentifiedRisk
	evaluations     map[model.EvaluationID]*model.RiskEvaluation
	countermeasures map[model.CountermeasureID]*model.Countermeasure
	metas           map[model.MetaCountermeasureID]*model.MetaCountermeasure
}

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	store          *store
	situation      *situationRepository
	risk           *riskRepository
	evaluation     *evaluationRepository
	countermeasure *countermeasureRepository
	meta           *metaCountermeasureRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	s := &store{
		situations:      make(map[model.SituationID]*model.Situation),
		risks:           make(map[model.RiskID]*model.IdentifiedRisk),
		evaluations:     make(map[model.EvaluationID]*model.RiskEvaluation),
		countermeasures: make(map[model.CountermeasureID]*model.Countermeasure),
		metas:           make(map[model.MetaCountermeasureID]*model.MetaCountermeasure),
	}

	return &Memory{
		store:          s,
		situation:      &situationRepository{store: s},
		risk:           &riskRepository{store: s},
		evaluation:     &evaluationRepository{store: s},
		countermeasure: &countermeasureRepository{store: s},
		meta:           &metaCountermeasureRepository{store: s},
	}
}

func (m *Memory) Situation() interfaces.SituationRepository {
	return m.situation
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Evaluation() interfaces.EvaluationRepository {
	return m.evaluation
}

func (m *Memory) Countermeasure() interfaces.CountermeasureRepository {
	return m.countermeasure
}

func (m *Memory) MetaCountermeasure() interfaces.MetaCountermeasureRepository {
	return m.meta
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
