package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

const (
	MaxDescriptionLength = 10000
	MaxTagLength         = 100
)

type SituationUseCase struct {
	repo    interfaces.Repository
	catalog *model.GuidewordCatalog
}

func NewSituationUseCase(repo interfaces.Repository, catalog *model.GuidewordCatalog) *SituationUseCase {
	return &SituationUseCase{
		repo:    repo,
		catalog: catalog,
	}
}

// SituationInput is the user supplied part of a situation
type SituationInput struct {
	Description     string
	Industry        string
	AIType          string
	DeploymentStage string
}

func (in SituationInput) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return goerr.Wrap(ErrInvalidInput, "description is required")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return goerr.Wrap(ErrInvalidInput, "description is too long", goerr.V("max", MaxDescriptionLength))
	}
	tags := map[string]string{
		"industry":         in.Industry,
		"ai_type":          in.AIType,
		"deployment_stage": in.DeploymentStage,
	}
	for name, v := range tags {
		if utf8.RuneCountInString(v) > MaxTagLength {
			return goerr.Wrap(ErrInvalidInput, "field is too long", goerr.V("field", name), goerr.V("max", MaxTagLength))
		}
	}
	return nil
}

func (uc *SituationUseCase) CreateSituation(ctx context.Context, in SituationInput) (*model.Situation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	situation := model.NewSituation(in.Description, in.Industry, in.AIType, in.DeploymentStage)
	if err := uc.repo.Situation().Create(ctx, situation); err != nil {
		return nil, goerr.Wrap(err, "failed to create situation")
	}

	logging.From(ctx).Info("situation created", "situation_id", situation.ID)
	return situation, nil
}

func (uc *SituationUseCase) GetSituation(ctx context.Context, id model.SituationID) (*model.Situation, error) {
	situation, err := uc.repo.Situation().Get(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, ErrSituationNotFound, "failed to get situation", goerr.V(SituationIDKey, id))
	}
	return situation, nil
}

func (uc *SituationUseCase) ListSituations(ctx context.Context) ([]*model.Situation, error) {
	situations, err := uc.repo.Situation().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list situations")
	}
	if situations == nil {
		situations = []*model.Situation{}
	}
	return situations, nil
}

// DeleteSituation removes the situation with its risks, evaluations and countermeasures
func (uc *SituationUseCase) DeleteSituation(ctx context.Context, id model.SituationID) error {
	if err := uc.repo.Situation().Delete(ctx, id); err != nil {
		return translateNotFound(err, ErrSituationNotFound, "failed to delete situation", goerr.V(SituationIDKey, id))
	}
	logging.From(ctx).Info("situation deleted", "situation_id", id)
	return nil
}

// ListRisks returns the stored risks of a situation in identification order
func (uc *SituationUseCase) ListRisks(ctx context.Context, id model.SituationID) ([]*model.IdentifiedRisk, error) {
	if _, err := uc.GetSituation(ctx, id); err != nil {
		return nil, err
	}

	risks, err := uc.repo.Risk().ListBySituation(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V(SituationIDKey, id))
	}
	if risks == nil {
		risks = []*model.IdentifiedRisk{}
	}
	return risks, nil
}

// Guidewords returns the catalog in order
func (uc *SituationUseCase) Guidewords() []model.Guideword {
	return uc.catalog.All()
}
