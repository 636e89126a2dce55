package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

// InitialDataResponse is the combined payload the client loads at startup.
type InitialDataResponse struct {
	Categories []*models.Category `json:"categories"`
	Phrases    []*models.Phrase   `json:"phrases"`
}

// InitialDataHandler serves the combined startup fetch and the bootstrap
// endpoint that seeds a fresh account.
type InitialDataHandler struct {
	categoryService  services.CategoryService
	phraseService    services.PhraseService
	bootstrapService services.BootstrapService
	logger           *zap.Logger
}

// NewInitialDataHandler creates a new initial data handler.
func NewInitialDataHandler(
	categoryService services.CategoryService,
	phraseService services.PhraseService,
	bootstrapService services.BootstrapService,
	logger *zap.Logger,
) *InitialDataHandler {
	return &InitialDataHandler{
		categoryService:  categoryService,
		phraseService:    phraseService,
		bootstrapService: bootstrapService,
		logger:           logger,
	}
}

// RegisterRoutes registers the initial data handler's routes on the given mux.
func (h *InitialDataHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /initial-data", authMiddleware.RequireAuth(scope(h.Get)))
	mux.HandleFunc("POST /initial-data", authMiddleware.RequireAuth(scope(h.Generate)))
}

// Get handles GET /initial-data. Both lists are empty slices, never null,
// so a fresh account decodes cleanly on the client.
func (h *InitialDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		serviceError(w, h.logger, err, "list categories")
		return
	}
	phrases, err := h.phraseService.List(r.Context())
	if err != nil {
		serviceError(w, h.logger, err, "list phrases")
		return
	}

	if categories == nil {
		categories = []*models.Category{}
	}
	if phrases == nil {
		phrases = []*models.Phrase{}
	}

	response := InitialDataResponse{Categories: categories, Phrases: phrases}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Generate handles POST /initial-data. Runs the translation bootstrap
// pipeline for the authenticated user.
func (h *InitialDataHandler) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.bootstrapService.Generate(r.Context())
	if err != nil {
		serviceError(w, h.logger, err, "generate initial data")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
