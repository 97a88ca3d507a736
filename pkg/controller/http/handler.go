package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/usecase"
)

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "riskscope AI risk assessment API",
		"version": s.version,
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listGuidewords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"guidewords": s.uc.Situation.Guidewords(),
	})
}

type createSituationRequest struct {
	Description     string `json:"description" validate:"required,max=10000"`
	Industry        string `json:"industry" validate:"max=100"`
	AIType          string `json:"ai_type" validate:"max=100"`
	DeploymentStage string `json:"deployment_stage" validate:"max=100"`
}

func (s *Server) createSituation(w http.ResponseWriter, r *http.Request) {
	var req createSituationRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	situation, err := s.uc.Situation.CreateSituation(r.Context(), usecase.SituationInput{
		Description:     req.Description,
		Industry:        req.Industry,
		AIType:          req.AIType,
		DeploymentStage: req.DeploymentStage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, situation)
}

func (s *Server) listSituations(w http.ResponseWriter, r *http.Request) {
	situations, err := s.uc.Situation.ListSituations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"situations": situations})
}

func situationID(r *http.Request) model.SituationID {
	return model.SituationID(chi.URLParam(r, "id"))
}

func (s *Server) getSituation(w http.ResponseWriter, r *http.Request) {
	situation, err := s.uc.Situation.GetSituation(r.Context(), situationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, situation)
}

func (s *Server) deleteSituation(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Situation.DeleteSituation(r.Context(), situationID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type identifyRisksRequest struct {
	Guidewords []string `json:"guidewords" validate:"omitempty,dive,required"`
}

func (s *Server) identifyRisks(w http.ResponseWriter, r *http.Request) {
	var req identifyRisksRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	risks, err := s.uc.Identification.IdentifyRisks(r.Context(), situationID(r), req.Guidewords)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"identified_risks": risks})
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Situation.ListRisks(r.Context(), situationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"identified_risks": risks})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.uc.Report.BuildReport(r.Context(), situationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	uri, err := s.uc.Report.ExportReport(r.Context(), situationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"uri": uri})
}

func (s *Server) evaluateRisk(w http.ResponseWriter, r *http.Request) {
	evaluation, err := s.uc.Evaluation.EvaluateRisk(r.Context(), model.RiskID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, evaluation)
}

func (s *Server) getEvaluation(w http.ResponseWriter, r *http.Request) {
	evaluation, err := s.uc.Evaluation.GetEvaluationByRisk(r.Context(), model.RiskID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, evaluation)
}

func evaluationID(r *http.Request) model.EvaluationID {
	return model.EvaluationID(chi.URLParam(r, "id"))
}

func metaID(r *http.Request) model.MetaCountermeasureID {
	return model.MetaCountermeasureID(chi.URLParam(r, "meta_id"))
}

func (s *Server) generateCountermeasures(w http.ResponseWriter, r *http.Request) {
	measures, err := s.uc.Countermeasure.GenerateCountermeasures(r.Context(), evaluationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"countermeasures": measures})
}

func (s *Server) listCountermeasures(w http.ResponseWriter, r *http.Request) {
	measures, err := s.uc.Countermeasure.ListCountermeasures(r.Context(), evaluationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"countermeasures": measures})
}

func (s *Server) generateMetaCountermeasures(w http.ResponseWriter, r *http.Request) {
	metas, err := s.uc.MetaCountermeasure.GenerateMetaCountermeasures(r.Context(), evaluationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"meta_countermeasures": metas})
}

func (s *Server) listMetaCountermeasures(w http.ResponseWriter, r *http.Request) {
	metas, err := s.uc.MetaCountermeasure.ListMetaCountermeasures(r.Context(), evaluationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"meta_countermeasures": metas})
}

func (s *Server) generateFromMeta(w http.ResponseWriter, r *http.Request) {
	measures, err := s.uc.Countermeasure.GenerateCountermeasuresFromMeta(r.Context(), metaID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"countermeasures": measures})
}

func (s *Server) listCountermeasuresByMeta(w http.ResponseWriter, r *http.Request) {
	measures, err := s.uc.Countermeasure.ListCountermeasuresByMeta(r.Context(), metaID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"countermeasures": measures})
}
