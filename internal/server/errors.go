package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/engine"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// Error codes.
const (
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUpstreamBusy      = "UPSTREAM_RATE_LIMITED"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeTimeout           = "TIMEOUT"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Retryable bool      `json:"retryable"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, retryable bool) {
	respondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestID(r),
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// writeDomainError maps an engine error onto a status code and a message
// an end user can read.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var herr *retry.HTTPError
	msg := engine.Describe(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error(), false)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, ErrCodeNotFound, "Recipe not found", false)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, msg, true)
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, r, http.StatusServiceUnavailable, ErrCodeUpstreamBusy, msg, true)
	case errors.As(err, &herr), errors.Is(err, domain.ErrTransient):
		writeError(w, r, http.StatusBadGateway, ErrCodeUpstream, msg, true)
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrEmptyCompletion):
		writeError(w, r, http.StatusBadGateway, ErrCodeUpstream, msg, true)
	default:
		writeError(w, r, http.StatusInternalServerError, ErrCodeInternal, msg, false)
	}
}
