package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/repositories"
)

// ProfileService defines the interface for user profile operations.
type ProfileService interface {
	// Get returns the scoped user's profile. A nil profile with a nil error
	// means onboarding has not been completed yet; it is not an error state.
	Get(ctx context.Context) (*models.UserProfile, error)
	// Update applies the given fields, creating the profile row when it does
	// not exist yet so a first-time PUT behaves like onboarding. The
	// create fallback needs the full language set; a partial update with no
	// existing row fails with ErrNotFound rather than storing blanks.
	Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error)
	// Upsert writes the full language set, replacing any existing row.
	Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new profile service with dependencies.
func NewProfileService(profileRepo repositories.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func (s *profileService) Get(ctx context.Context) (*models.UserProfile, error) {
	return s.profileRepo.Get(ctx)
}

func (s *profileService) Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.profileRepo.Update(ctx, update)
	if errors.Is(err, apperrors.ErrNotFound) {
		if update.UILanguage == nil || update.NativeLanguage == nil || update.LearningLanguage == nil {
			return nil, fmt.Errorf("profile does not exist and update lacks the full language set: %w", apperrors.ErrNotFound)
		}
		s.logger.Debug("no profile row to update, creating one")
		return s.profileRepo.Upsert(ctx, update)
	}
	return profile, err
}

func (s *profileService) Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	return s.profileRepo.Upsert(ctx, update)
}
