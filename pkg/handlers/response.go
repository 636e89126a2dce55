package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
)

// ScopeMiddleware is a function that wraps a handler with the per-request
// user database scope.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc

// exposeDetails controls whether error responses carry the underlying error
// text in a details field. Off unless the server runs in development.
var exposeDetails bool

// ExposeErrorDetails toggles the details field on error responses. Called
// once at startup; production keeps upstream detail in logs only.
func ExposeErrorDetails(enabled bool) {
	exposeDetails = enabled
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// serviceError maps service-layer errors onto the API's status codes and
// writes the response. Unrecognized errors become a logged 500.
func serviceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var status int
	var code, message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, "conflict", "Resource already exists"
	case errors.Is(err, apperrors.ErrOnboardingRequired):
		status, code, message = http.StatusPreconditionFailed, "onboarding_required", "Complete onboarding before generating initial data"
	case errors.Is(err, apperrors.ErrTranslationFailed):
		status, code, message = http.StatusBadGateway, "translation_failed", "Translation provider failed"
		logger.Error("Translation failed", zap.String("action", action), zap.Error(err))
	default:
		status, code, message = http.StatusInternalServerError, "internal_error", "Failed to "+action
		logger.Error("Request failed", zap.String("action", action), zap.Error(err))
	}

	payload := map[string]string{
		"error":   code,
		"message": message,
	}
	if exposeDetails && err != nil {
		payload["details"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// validationError writes the standard 400 validation failure response.
func validationError(w http.ResponseWriter, logger *zap.Logger, message string) {
	if err := ErrorResponse(w, http.StatusBadRequest, "validation_failed", message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
