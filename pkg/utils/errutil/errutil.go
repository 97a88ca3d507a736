package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/secmon-lab/riskscope/pkg/utils/safe"
)

// Handle logs the error with its goerr values and stack and reports it to
// Sentry. Sentry capture is a no-op unless sentry.Init has been called.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// ErrorBody is the JSON envelope of every API error response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleHTTP writes an error response. Errors with status >= 500 are logged
// and reported; client errors are logged at debug level only.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, code string) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		Handle(ctx, err, "HTTP error")
	} else {
		logging.From(ctx).Debug("HTTP client error",
			"status", statusCode,
			"code", code,
			"error", err.Error(),
		)
	}

	body, mErr := json.Marshal(ErrorBody{Error: ErrorDetail{Code: code, Message: err.Error()}})
	if mErr != nil {
		http.Error(w, err.Error(), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(ctx, w, body)
}
