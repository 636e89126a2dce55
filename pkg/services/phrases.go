package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/repositories"
)

// PhraseService defines the interface for phrase operations.
type PhraseService interface {
	List(ctx context.Context) ([]*models.Phrase, error)
	Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error)
	Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type phraseService struct {
	phraseRepo repositories.PhraseRepository
}

// NewPhraseService creates a new phrase service with dependencies.
func NewPhraseService(phraseRepo repositories.PhraseRepository) PhraseService {
	return &phraseService{phraseRepo: phraseRepo}
}

func (s *phraseService) List(ctx context.Context) ([]*models.Phrase, error) {
	return s.phraseRepo.List(ctx)
}

func (s *phraseService) Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error) {
	return s.phraseRepo.Create(ctx, create)
}

func (s *phraseService) Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error) {
	return s.phraseRepo.Update(ctx, id, update)
}

func (s *phraseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.phraseRepo.Delete(ctx, id)
}
