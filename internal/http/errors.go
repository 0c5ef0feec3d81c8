package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nvoss/hearth/internal/domain"
)

// errorEnvelope is the uniform wire shape for every failure. The UI renders
// a single retry affordance off this regardless of which internal failure
// occurred.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the domain error taxonomy onto an HTTP status and a
// machine-readable code, in one place.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	var upstream *domain.UpstreamError
	var jobFailed *domain.JobFailedError

	switch {
	case errors.Is(err, domain.ErrNoTargets):
		status = http.StatusServiceUnavailable
		code = "configuration_error"
	case errors.Is(err, domain.ErrMalformedResponse):
		status = http.StatusBadGateway
		code = "malformed_response"
	case errors.Is(err, domain.ErrJobTimeout):
		status = http.StatusGatewayTimeout
		code = "job_timeout"
	case errors.Is(err, domain.ErrJobCanceled):
		status = http.StatusBadGateway
		code = "job_canceled"
	case errors.As(err, &jobFailed):
		status = http.StatusBadGateway
		code = "job_failed"
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		code = "upstream_error"
	}

	logger.Error("request failed",
		zap.String("code", code),
		zap.Error(err),
	)

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: err.Error(),
	}})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Code:    "bad_request",
		Message: message,
	}})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorEnvelope{Error: errorBody{
		Code:    "unauthorized",
		Message: "invalid tool password",
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
