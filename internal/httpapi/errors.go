package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"skilltrend-engine/internal/analyze"
	"skilltrend-engine/internal/config"
	"skilltrend-engine/internal/source"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writePipelineError maps analyze/source/config failures onto the error
// envelope. Upstream failures are a 500, never a partial result.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var uerr *source.UpstreamError
	var cerr *config.ConfigError
	switch {
	case errors.Is(err, analyze.ErrEmptyRole):
		WriteError(w, r, http.StatusBadRequest, "invalid_role", err.Error())
	case errors.As(err, &uerr):
		WriteError(w, r, http.StatusInternalServerError, "upstream_error", err.Error())
	case errors.As(err, &cerr):
		WriteError(w, r, http.StatusInternalServerError, "config_error", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, r, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
