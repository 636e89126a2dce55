package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/repositories"
)

// CategoryDeleteResult reports what happened to the phrases under a deleted
// category.
type CategoryDeleteResult struct {
	PhrasesMoved   int64 `json:"phrasesMoved"`
	PhrasesDeleted int64 `json:"phrasesDeleted"`
}

// CategoryService defines the interface for category operations.
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, name, color string, isFoundational bool) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error)
	// Delete removes a category. With a migration target the category's
	// phrases are re-pointed at the target first; without one they are
	// deleted. The two steps are not transactional; a retry after a partial
	// failure completes the remainder.
	Delete(ctx context.Context, id uuid.UUID, migrationTargetID *uuid.UUID) (*CategoryDeleteResult, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	phraseRepo   repositories.PhraseRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service with dependencies.
func NewCategoryService(categoryRepo repositories.CategoryRepository, phraseRepo repositories.PhraseRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		phraseRepo:   phraseRepo,
		logger:       logger,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, name, color string, isFoundational bool) (*models.Category, error) {
	category := &models.Category{
		Name:           name,
		Color:          color,
		IsFoundational: isFoundational,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	return s.categoryRepo.Update(ctx, id, update)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID, migrationTargetID *uuid.UUID) (*CategoryDeleteResult, error) {
	result := &CategoryDeleteResult{}

	if migrationTargetID != nil {
		if *migrationTargetID == id {
			return nil, fmt.Errorf("migration target equals the deleted category")
		}
		moved, err := s.phraseRepo.ReassignCategory(ctx, id, *migrationTargetID)
		if err != nil {
			return nil, fmt.Errorf("failed to move phrases: %w", err)
		}
		result.PhrasesMoved = moved
	} else {
		deleted, err := s.phraseRepo.DeleteByCategory(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete phrases: %w", err)
		}
		result.PhrasesDeleted = deleted
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("category deleted",
		zap.String("category_id", id.String()),
		zap.Int64("phrases_moved", result.PhrasesMoved),
		zap.Int64("phrases_deleted", result.PhrasesDeleted))

	return result, nil
}
