package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/deck"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/repositories"
)

// PhraseFailure records one phrase that could not be materialized during
// bootstrap. Index is the phrase's position in the template deck.
type PhraseFailure struct {
	Index      int    `json:"index"`
	NativeText string `json:"nativeText"`
	Reason     string `json:"reason"`
}

// BootstrapResult summarizes a bootstrap run.
type BootstrapResult struct {
	Message           string          `json:"message"`
	CategoriesCreated int             `json:"categoriesCreated"`
	PhrasesCreated    int             `json:"phrasesCreated"`
	Failed            []PhraseFailure `json:"failed"`
}

// BootstrapService seeds a new learner's account from the embedded template
// deck, translated into the user's language pair.
type BootstrapService interface {
	Generate(ctx context.Context) (*BootstrapResult, error)
}

type bootstrapService struct {
	profileRepo  repositories.ProfileRepository
	categoryRepo repositories.CategoryRepository
	phraseRepo   repositories.PhraseRepository
	translator   TranslationService
	logger       *zap.Logger
}

// NewBootstrapService creates a new bootstrap service with dependencies.
func NewBootstrapService(
	profileRepo repositories.ProfileRepository,
	categoryRepo repositories.CategoryRepository,
	phraseRepo repositories.PhraseRepository,
	translator TranslationService,
	logger *zap.Logger,
) BootstrapService {
	return &bootstrapService{
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		phraseRepo:   phraseRepo,
		translator:   translator,
		logger:       logger,
	}
}

// Generate runs the full pipeline: profile gate, translation, category
// reconciliation, phrase materialization. Category reconciliation reuses
// rows that already exist, so a retry after a partial failure picks up where
// the previous run left off instead of duplicating categories.
func (s *bootstrapService) Generate(ctx context.Context) (*BootstrapResult, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrOnboardingRequired
	}

	template, err := deck.Load()
	if err != nil {
		return nil, err
	}

	s.logger.Info("bootstrap started",
		zap.String("native_language", profile.NativeLanguage),
		zap.String("learning_language", profile.LearningLanguage),
		zap.Int("template_categories", len(template.Categories)),
		zap.Int("template_phrases", len(template.Phrases)))

	categoryNames, err := s.translateCategoryNames(ctx, template, profile.NativeLanguage)
	if err != nil {
		return nil, err
	}

	phraseItems := make([]TranslationInput, len(template.Phrases))
	for i, p := range template.Phrases {
		phraseItems[i] = TranslationInput{ID: i, Text: p.English}
	}
	phraseTranslations, err := s.translator.TranslatePhrases(ctx, phraseItems, profile.NativeLanguage, profile.LearningLanguage)
	if err != nil {
		return nil, err
	}

	result := &BootstrapResult{Failed: []PhraseFailure{}}

	categoryIDs, err := s.reconcileCategories(ctx, template.Categories, categoryNames, result)
	if err != nil {
		return nil, err
	}

	for i, p := range template.Phrases {
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			continue
		}
		translation := phraseTranslations[i]

		_, err := s.phraseRepo.Create(ctx, &models.PhraseCreate{
			NativeText:    translation.Native,
			LearningText:  translation.Learning,
			CategoryID:    categoryID,
			Transcription: translation.Transcription,
			Context:       p.Context,
		})
		if err != nil {
			s.logger.Warn("failed to create phrase during bootstrap",
				zap.Int("index", i),
				zap.Error(err))
			result.Failed = append(result.Failed, PhraseFailure{
				Index:      i,
				NativeText: translation.Native,
				Reason:     err.Error(),
			})
			continue
		}
		result.PhrasesCreated++
	}

	if result.PhrasesCreated == 0 && len(result.Failed) > 0 {
		return nil, fmt.Errorf("all %d phrases failed to store: %s", len(result.Failed), result.Failed[0].Reason)
	}

	result.Message = fmt.Sprintf("Created %d categories and %d phrases", result.CategoriesCreated, result.PhrasesCreated)

	s.logger.Info("bootstrap finished",
		zap.Int("categories_created", result.CategoriesCreated),
		zap.Int("phrases_created", result.PhrasesCreated),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

func (s *bootstrapService) translateCategoryNames(ctx context.Context, template *deck.Template, nativeLang string) (map[int]string, error) {
	items := make([]TranslationInput, len(template.Categories))
	for i, c := range template.Categories {
		items[i] = TranslationInput{ID: c.ID, Text: c.Name}
	}
	return s.translator.TranslateCategories(ctx, items, nativeLang)
}

// reconcileCategories maps every template category to a persisted row,
// creating rows that do not exist yet. A Conflict from create means another
// request won the insert race; the existing row is re-read and reused.
func (s *bootstrapService) reconcileCategories(ctx context.Context, templates []deck.TemplateCategory, names map[int]string, result *BootstrapResult) (map[int]uuid.UUID, error) {
	ids := make(map[int]uuid.UUID, len(templates))

	for _, tc := range templates {
		name := names[tc.ID]

		existing, err := s.categoryRepo.GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
		}
		if existing != nil {
			ids[tc.ID] = existing.ID
			continue
		}

		category := &models.Category{
			Name:           name,
			Color:          tc.Color,
			IsFoundational: tc.IsFoundational,
		}
		err = s.categoryRepo.Create(ctx, category)
		if errors.Is(err, apperrors.ErrConflict) {
			existing, err = s.categoryRepo.GetByName(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read category %q: %w", name, err)
			}
			if existing == nil {
				return nil, fmt.Errorf("category %q conflicted but is not readable", name)
			}
			ids[tc.ID] = existing.ID
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", name, err)
		}

		ids[tc.ID] = category.ID
		result.CategoriesCreated++
	}

	return ids, nil
}
