package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

type IdentificationUseCase struct {
	repo    interfaces.Repository
	llm     interfaces.LLM
	catalog *model.GuidewordCatalog
}

func NewIdentificationUseCase(repo interfaces.Repository, llm interfaces.LLM, catalog *model.GuidewordCatalog) *IdentificationUseCase {
	return &IdentificationUseCase{
		repo:    repo,
		llm:     llm,
		catalog: catalog,
	}
}

type identificationPromptData struct {
	Situation *model.Situation
	Groups    []model.GuidewordGroup
}

type identificationReply struct {
	IdentifiedRisks []identifiedRiskItem `json:"identified_risks"`
}

type identifiedRiskItem struct {
	Category        *string `json:"category"`
	Guideword       *string `json:"guideword"`
	RiskDescription *string `json:"risk_description"`
	Description     *string `json:"description"`
	AffectedArea    string  `json:"affected_area"`
	Confidence      string  `json:"confidence"`
}

// IdentifyRisks asks the LLM which guidewords apply to the situation and
// stores the resulting risks. An empty guidewordNames selects the whole
// catalog; a selection that matches nothing yields no risks and no LLM call.
func (uc *IdentificationUseCase) IdentifyRisks(ctx context.Context, situationID model.SituationID, guidewordNames []string) (risks []*model.IdentifiedRisk, err error) {
	count := 0
	defer observeStage(stageIdentification, time.Now(), &count, &err)

	situation, err := uc.repo.Situation().Get(ctx, situationID)
	if err != nil {
		return nil, translateNotFound(err, ErrSituationNotFound, "failed to get situation", goerr.V(SituationIDKey, situationID))
	}

	guidewords := uc.catalog.Filter(guidewordNames)
	if len(guidewords) == 0 {
		logging.From(ctx).Info("no guideword selected, skipping identification",
			"situation_id", situationID, "requested", guidewordNames)
		return []*model.IdentifiedRisk{}, nil
	}

	prompt, err := renderPrompt(identificationPrompt, identificationPromptData{
		Situation: situation,
		Groups:    model.GroupGuidewords(guidewords),
	})
	if err != nil {
		return nil, err
	}

	reply, err := uc.llm.Call(ctx, prompt, identificationSystemPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to identify risks", goerr.V(SituationIDKey, situationID))
	}

	risks, err = parseIdentifiedRisks(reply, situationID, time.Now().UTC())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse identified risks", goerr.V(SituationIDKey, situationID))
	}
	risks = prioritizeRisks(deduplicateRisks(risks))

	for i, r := range risks {
		r.Rank = i
	}

	if len(risks) > 0 {
		if err := uc.repo.Risk().CreateMany(ctx, situationID, risks); err != nil {
			return nil, translateNotFound(err, ErrSituationNotFound, "failed to store identified risks", goerr.V(SituationIDKey, situationID))
		}
	}

	count = len(risks)
	logging.From(ctx).Info("risks identified",
		"situation_id", situationID,
		"guidewords", len(guidewords),
		"risks", len(risks),
	)
	return risks, nil
}

func parseIdentifiedRisks(reply string, situationID model.SituationID, now time.Time) ([]*model.IdentifiedRisk, error) {
	var parsed identificationReply
	if err := llmjson.Decode(reply, &parsed); err != nil {
		return nil, err
	}

	risks := make([]*model.IdentifiedRisk, 0, len(parsed.IdentifiedRisks))
	for i, item := range parsed.IdentifiedRisks {
		if item.Category == nil {
			return nil, llmjson.Missing("category", i)
		}
		if item.Guideword == nil {
			return nil, llmjson.Missing("guideword", i)
		}
		description := item.RiskDescription
		if description == nil {
			description = item.Description
		}
		if description == nil {
			return nil, llmjson.Missing("risk_description", i)
		}

		risks = append(risks, &model.IdentifiedRisk{
			ID:              model.NewRiskID(),
			SituationID:     situationID,
			Category:        types.GuidewordCategory(*item.Category),
			Guideword:       *item.Guideword,
			Description:     *description,
			AffectedArea:    item.AffectedArea,
			ConfidenceScore: types.Confidence(item.Confidence).Score(),
			CreatedAt:       now,
		})
	}
	return risks, nil
}

// deduplicateRisks keeps the first risk of each byte-identical description
func deduplicateRisks(risks []*model.IdentifiedRisk) []*model.IdentifiedRisk {
	seen := make(map[string]struct{}, len(risks))
	unique := make([]*model.IdentifiedRisk, 0, len(risks))
	for _, r := range risks {
		if _, ok := seen[r.Description]; ok {
			continue
		}
		seen[r.Description] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// prioritizeRisks orders by confidence, highest first, keeping ties in input order
func prioritizeRisks(risks []*model.IdentifiedRisk) []*model.IdentifiedRisk {
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].ConfidenceScore > risks[j].ConfidenceScore
	})
	return risks
}
