package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

// ProfileHandler handles user profile HTTP requests.
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /profile", authMiddleware.RequireAuth(scope(h.Get)))
	mux.HandleFunc("PUT /profile", authMiddleware.RequireAuth(scope(h.Update)))
	mux.HandleFunc("POST /profile", authMiddleware.RequireAuth(scope(h.Upsert)))
}

// Get handles GET /profile. When the user has not completed onboarding the
// body is a JSON null with status 200; the missing profile is a state, not
// an error.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Get(r.Context())
	if err != nil {
		serviceError(w, h.logger, err, "get profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	update, ok := h.decodeProfileUpdate(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.Update(r.Context(), update)
	if err != nil {
		serviceError(w, h.logger, err, "update profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Upsert handles POST /profile. All three languages are required; this is
// the onboarding call.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	update, ok := h.decodeProfileUpdate(w, r)
	if !ok {
		return
	}
	if update.UILanguage == nil || update.NativeLanguage == nil || update.LearningLanguage == nil {
		validationError(w, h.logger, "ui_language, native_language and learning_language are required")
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), update)
	if err != nil {
		serviceError(w, h.logger, err, "save profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, profile); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ProfileHandler) decodeProfileUpdate(w http.ResponseWriter, r *http.Request) (*models.ProfileUpdate, bool) {
	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		validationError(w, h.logger, "Invalid JSON body")
		return nil, false
	}
	if update.UILanguage == nil && update.NativeLanguage == nil && update.LearningLanguage == nil {
		validationError(w, h.logger, "At least one language field is required")
		return nil, false
	}
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"ui_language", update.UILanguage},
		{"native_language", update.NativeLanguage},
		{"learning_language", update.LearningLanguage},
	} {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			validationError(w, h.logger, field.name+" must not be empty")
			return nil, false
		}
	}
	return &update, true
}
