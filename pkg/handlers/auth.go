package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
)

// AuthProfileResponse is the token holder's identity as seen by the server.
type AuthProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// VerifyResponse confirms a token passed validation.
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	ID    string `json:"id"`
}

// AuthHandler exposes token introspection endpoints.
type AuthHandler struct {
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /auth/profile", authMiddleware.RequireAuth(h.Profile))
	mux.HandleFunc("GET /auth/verify", authMiddleware.RequireAuth(h.Verify))
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := AuthProfileResponse{ID: claims.Subject, Email: claims.Email}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Verify handles GET /auth/verify. Reaching the handler means the token
// already passed the auth middleware.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := VerifyResponse{Valid: true, ID: claims.Subject}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
