package usecase

import (
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

type UseCases struct {
	repo        interfaces.Repository
	llm         interfaces.LLM
	catalog     *model.GuidewordCatalog
	notifier    interfaces.Notifier
	notifyLevel types.RiskLevel
	storage     interfaces.ReportStorage

	Situation          *SituationUseCase
	Identification     *IdentificationUseCase
	Evaluation         *EvaluationUseCase
	Countermeasure     *CountermeasureUseCase
	MetaCountermeasure *MetaCountermeasureUseCase
	Report             *ReportUseCase
}

type Option func(*UseCases)

// WithGuidewordCatalog replaces the built-in guideword catalog
func WithGuidewordCatalog(catalog *model.GuidewordCatalog) Option {
	return func(uc *UseCases) {
		uc.catalog = catalog
	}
}

// WithNotifier announces evaluations whose level is at least minLevel
func WithNotifier(notifier interfaces.Notifier, minLevel types.RiskLevel) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
		uc.notifyLevel = minLevel
	}
}

// WithReportStorage enables report export
func WithReportStorage(storage interfaces.ReportStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func New(repo interfaces.Repository, llm interfaces.LLM, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		llm:         llm,
		catalog:     model.DefaultGuidewordCatalog(),
		notifyLevel: types.RiskLevelHigh,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Situation = NewSituationUseCase(repo, uc.catalog)
	uc.Identification = NewIdentificationUseCase(repo, llm, uc.catalog)
	uc.Evaluation = NewEvaluationUseCase(repo, llm, uc.notifier, uc.notifyLevel)
	uc.Countermeasure = NewCountermeasureUseCase(repo, llm)
	uc.MetaCountermeasure = NewMetaCountermeasureUseCase(repo, llm)
	uc.Report = NewReportUseCase(repo, uc.storage)

	return uc
}

// Catalog returns the guideword catalog in use
func (uc *UseCases) Catalog() *model.GuidewordCatalog {
	return uc.catalog
}
