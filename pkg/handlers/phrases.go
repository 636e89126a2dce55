package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

// PhrasesHandler handles phrase HTTP requests.
type PhrasesHandler struct {
	phraseService services.PhraseService
	logger        *zap.Logger
}

// NewPhrasesHandler creates a new phrases handler.
func NewPhrasesHandler(phraseService services.PhraseService, logger *zap.Logger) *PhrasesHandler {
	return &PhrasesHandler{
		phraseService: phraseService,
		logger:        logger,
	}
}

// RegisterRoutes registers the phrases handler's routes on the given mux.
func (h *PhrasesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("POST /phrases", authMiddleware.RequireAuth(scope(h.Create)))
	mux.HandleFunc("PUT /phrases/{id}", authMiddleware.RequireAuth(scope(h.Update)))
	mux.HandleFunc("DELETE /phrases/{id}", authMiddleware.RequireAuth(scope(h.Delete)))
}

// Create handles POST /phrases. Study-progress fields are not accepted here;
// storage defaults make the created phrase immediately reviewable.
func (h *PhrasesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PhraseCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, h.logger, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.NativeText) == "" {
		validationError(w, h.logger, "native_text is required")
		return
	}
	if strings.TrimSpace(req.LearningText) == "" {
		validationError(w, h.logger, "learning_text is required")
		return
	}
	if req.CategoryID == uuid.Nil {
		validationError(w, h.logger, "category_id is required")
		return
	}

	phrase, err := h.phraseService.Create(r.Context(), &req)
	if err != nil {
		serviceError(w, h.logger, err, "create phrase")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, phrase); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /phrases/{id}. Any subset of fields may be sent,
// including the study-progress fields the client owns.
func (h *PhrasesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		validationError(w, h.logger, "Invalid phrase id")
		return
	}

	var update models.PhraseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		validationError(w, h.logger, "Invalid JSON body")
		return
	}
	if update.IsEmpty() {
		validationError(w, h.logger, "At least one field is required")
		return
	}
	if update.NativeText != nil && strings.TrimSpace(*update.NativeText) == "" {
		validationError(w, h.logger, "native_text must not be empty")
		return
	}
	if update.LearningText != nil && strings.TrimSpace(*update.LearningText) == "" {
		validationError(w, h.logger, "learning_text must not be empty")
		return
	}
	if update.CategoryID != nil && *update.CategoryID == uuid.Nil {
		validationError(w, h.logger, "category_id must be a valid uuid")
		return
	}

	phrase, err := h.phraseService.Update(r.Context(), id, &update)
	if err != nil {
		serviceError(w, h.logger, err, "update phrase")
		return
	}

	if err := WriteJSON(w, http.StatusOK, phrase); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /phrases/{id}. Deleting an absent phrase still
// returns 204.
func (h *PhrasesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		validationError(w, h.logger, "Invalid phrase id")
		return
	}

	if err := h.phraseService.Delete(r.Context(), id); err != nil {
		serviceError(w, h.logger, err, "delete phrase")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
