package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/logger"
)

// ErrorBody keeps "message" at the top level, where clients read it.
type ErrorBody struct {
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError converts a domain error into a JSON HTTP error response.
// Non-domain errors become a 500 without details; the cause is logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"
	var meta map[string]string

	var de *domain.Error
	if errors.As(err, &de) {
		status = statusFromKind(de.Kind)
		code = de.Code
		message = de.Message
		meta = de.Meta
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", code).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorBody{
		Message:   message,
		Code:      code,
		Meta:      meta,
		RequestID: RequestIDFromContext(r),
	})
}

// statusFromKind maps domain error kinds to HTTP status codes.
// Duplicates and bad credentials are reported as 400.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation, domain.KindCredentials, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
