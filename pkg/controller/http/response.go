package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/service/llm"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/errutil"
	"github.com/secmon-lab/riskscope/pkg/utils/llmjson"
	"github.com/secmon-lab/riskscope/pkg/utils/safe"
)

// Error codes of the JSON error body
const (
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInvalidRequest = "invalid_request"
	CodeConfigError    = "config_error"
	CodeProviderError  = "provider_error"
	CodeParseError     = "parse_error"
	CodeNotImplemented = "not_implemented"
	CodeInternal       = "internal_error"
)

// maxBodySize caps request bodies; a maximal situation fits well below it
const maxBodySize = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// classify maps an error onto the HTTP status and error code reported to clients
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrSituationNotFound),
		errors.Is(err, usecase.ErrRiskNotFound),
		errors.Is(err, usecase.ErrEvaluationNotFound),
		errors.Is(err, usecase.ErrMetaCountermeasureNotFound),
		errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, usecase.ErrAlreadyEvaluated):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, usecase.ErrStorageNotConfigured):
		return http.StatusNotImplemented, CodeNotImplemented
	case errors.Is(err, llm.ErrConfig):
		return http.StatusInternalServerError, CodeConfigError
	case errors.Is(err, llm.ErrProvider):
		return http.StatusBadGateway, CodeProviderError
	case errors.Is(err, llmjson.ErrParse):
		return http.StatusBadGateway, CodeParseError
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	errutil.HandleHTTP(r.Context(), w, err, status, code)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError, CodeInternal)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// decodeBody decodes and validates a JSON request body. An empty body is
// accepted when optional is true and leaves dst untouched.
func decodeBody(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return goerr.Wrap(usecase.ErrInvalidInput, "malformed JSON body", goerr.V("error", err.Error()))
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return goerr.Wrap(usecase.ErrInvalidInput, "request validation failed",
				goerr.V("field", verrs[0].Field()), goerr.V("rule", verrs[0].Tag()))
		}
		return goerr.Wrap(usecase.ErrInvalidInput, "request validation failed", goerr.V("error", err.Error()))
	}
	return nil
}
