package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/database"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
)

// ProfileRepository provides data access for user language profiles.
type ProfileRepository interface {
	// Get returns the scoped user's profile, or nil with no error when the
	// user has not completed onboarding.
	Get(ctx context.Context) (*models.UserProfile, error)
	// Update applies the given fields; returns ErrNotFound when no profile
	// row exists yet.
	Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error)
	// Upsert inserts or replaces the profile keyed by user_id, always
	// setting schema_version 1 and a fresh updated_at.
	Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error)
}

type profileRepository struct{}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

var _ ProfileRepository = (*profileRepository)(nil)

func (r *profileRepository) Get(ctx context.Context) (*models.UserProfile, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT user_id, ui_language, native_language, learning_language, schema_version, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	profile, err := scanProfile(scope.Conn.QueryRow(ctx, query, scope.UserID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No profile: onboarding not completed
		}
		return nil, err
	}

	return profile, nil
}

func (r *profileRepository) Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	builder := psql.Update("user_profiles").
		Set("updated_at", squirrel.Expr("now()")).
		Where("user_id = ?", scope.UserID).
		Suffix("RETURNING user_id, ui_language, native_language, learning_language, schema_version, updated_at")

	if update.UILanguage != nil {
		builder = builder.Set("ui_language", *update.UILanguage)
	}
	if update.NativeLanguage != nil {
		builder = builder.Set("native_language", *update.NativeLanguage)
	}
	if update.LearningLanguage != nil {
		builder = builder.Set("learning_language", *update.LearningLanguage)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	profile, err := scanProfile(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		INSERT INTO user_profiles (user_id, ui_language, native_language, learning_language, schema_version, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (user_id) DO UPDATE SET
			ui_language = EXCLUDED.ui_language,
			native_language = EXCLUDED.native_language,
			learning_language = EXCLUDED.learning_language,
			schema_version = 1,
			updated_at = now()
		RETURNING user_id, ui_language, native_language, learning_language, schema_version, updated_at`

	profile, err := scanProfile(scope.Conn.QueryRow(ctx, query,
		scope.UserID,
		stringOrEmpty(update.UILanguage),
		stringOrEmpty(update.NativeLanguage),
		stringOrEmpty(update.LearningLanguage),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.UserID,
		&p.UILanguage,
		&p.NativeLanguage,
		&p.LearningLanguage,
		&p.SchemaVersion,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// stringOrEmpty dereferences s, defaulting to the empty string.
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
