package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryCreateRequest is the body of POST /categories.
type CategoryCreateRequest struct {
	Name           string `json:"name"`
	Color          string `json:"color"`
	IsFoundational bool   `json:"is_foundational"`
}

// CategoryDeleteRequest is the optional body of DELETE /categories/{id}.
type CategoryDeleteRequest struct {
	MigrationTargetID string `json:"migrationTargetId"`
}

// CategoriesHandler handles category HTTP requests.
type CategoriesHandler struct {
	categoryService services.CategoryService
	logger          *zap.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(categoryService services.CategoryService, logger *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the categories handler's routes on the given mux.
func (h *CategoriesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("POST /categories", authMiddleware.RequireAuth(scope(h.Create)))
	mux.HandleFunc("PUT /categories/{id}", authMiddleware.RequireAuth(scope(h.Update)))
	mux.HandleFunc("DELETE /categories/{id}", authMiddleware.RequireAuth(scope(h.Delete)))
}

// Create handles POST /categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationError(w, h.logger, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		validationError(w, h.logger, "name is required")
		return
	}
	if !hexColorPattern.MatchString(req.Color) {
		validationError(w, h.logger, "color must be a hex RGB value like #FF8800")
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.Name, req.Color, req.IsFoundational)
	if err != nil {
		serviceError(w, h.logger, err, "create category")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, category); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		validationError(w, h.logger, "Invalid category id")
		return
	}

	var update models.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		validationError(w, h.logger, "Invalid JSON body")
		return
	}
	if update.Name == nil && update.Color == nil {
		validationError(w, h.logger, "At least one of name, color is required")
		return
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		validationError(w, h.logger, "name must not be empty")
		return
	}
	if update.Color != nil && !hexColorPattern.MatchString(*update.Color) {
		validationError(w, h.logger, "color must be a hex RGB value like #FF8800")
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, &update)
	if err != nil {
		serviceError(w, h.logger, err, "update category")
		return
	}

	if err := WriteJSON(w, http.StatusOK, category); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /categories/{id}. The body may carry a migration
// target; phrases are moved there instead of being deleted.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		validationError(w, h.logger, "Invalid category id")
		return
	}

	var migrationTargetID *uuid.UUID
	body, err := io.ReadAll(r.Body)
	if err != nil {
		validationError(w, h.logger, "Failed to read body")
		return
	}
	if len(body) > 0 {
		var req CategoryDeleteRequest
		if err := json.Unmarshal(body, &req); err != nil {
			validationError(w, h.logger, "Invalid JSON body")
			return
		}
		if req.MigrationTargetID != "" {
			target, err := uuid.Parse(req.MigrationTargetID)
			if err != nil {
				validationError(w, h.logger, "Invalid migrationTargetId")
				return
			}
			if target == id {
				validationError(w, h.logger, "migrationTargetId must differ from the deleted category")
				return
			}
			migrationTargetID = &target
		}
	}

	if _, err := h.categoryService.Delete(r.Context(), id, migrationTargetID); err != nil {
		serviceError(w, h.logger, err, "delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
