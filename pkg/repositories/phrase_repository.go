package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/database"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
)

// PhraseRepository provides data access for phrases. All statements are
// scoped by the user from context in addition to any entity ID.
type PhraseRepository interface {
	List(ctx context.Context) ([]*models.Phrase, error)
	Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error)
	Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error)
	// Delete removes a phrase by ID. Deleting a non-existent or non-owned
	// phrase is not an error (idempotent delete).
	Delete(ctx context.Context, id uuid.UUID) error
	// ReassignCategory re-points every phrase under fromCategory to
	// toCategory and returns the number of phrases moved. A nonexistent
	// target violates the category foreign key and maps to ErrNotFound.
	ReassignCategory(ctx context.Context, fromCategory, toCategory uuid.UUID) (int64, error)
	// DeleteByCategory removes every phrase under the given category.
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type phraseRepository struct{}

// NewPhraseRepository creates a new PhraseRepository.
func NewPhraseRepository() PhraseRepository {
	return &phraseRepository{}
}

var _ PhraseRepository = (*phraseRepository)(nil)

const phraseColumns = `id, user_id, native_text, learning_text, category_id,
	transcription, context, mastery_level, last_reviewed_at, next_review_at,
	know_count, know_streak, is_mastered, lapses, created_at`

func (r *phraseRepository) List(ctx context.Context) ([]*models.Phrase, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT ` + phraseColumns + `
		FROM phrases
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := scope.Conn.Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phrases: %w", err)
	}
	defer rows.Close()

	var phrases []*models.Phrase
	for rows.Next() {
		phrase, err := scanPhrase(rows)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, phrase)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phrases: %w", err)
	}

	return phrases, nil
}

func (r *phraseRepository) Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	// Study-progress fields are not settable at creation; column defaults
	// apply (mastery 0, next_review_at now(), counters zero).
	query := `
		INSERT INTO phrases (user_id, native_text, learning_text, category_id, transcription, context)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING ` + phraseColumns

	phrase, err := scanPhrase(scope.Conn.QueryRow(ctx, query,
		scope.UserID,
		create.NativeText,
		create.LearningText,
		create.CategoryID,
		create.Transcription,
		create.Context,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to create phrase: %w", err)
	}

	return phrase, nil
}

func (r *phraseRepository) Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	builder := psql.Update("phrases").
		Where("id = ?", id).
		Where("user_id = ?", scope.UserID).
		Suffix("RETURNING " + phraseColumns)

	if update.NativeText != nil {
		builder = builder.Set("native_text", *update.NativeText)
	}
	if update.LearningText != nil {
		builder = builder.Set("learning_text", *update.LearningText)
	}
	if update.CategoryID != nil {
		builder = builder.Set("category_id", *update.CategoryID)
	}
	if update.Transcription != nil {
		builder = builder.Set("transcription", nullIfEmpty(*update.Transcription))
	}
	if update.Context != nil {
		builder = builder.Set("context", nullIfEmpty(*update.Context))
	}
	if update.MasteryLevel != nil {
		builder = builder.Set("mastery_level", *update.MasteryLevel)
	}
	if update.LastReviewedAt != nil {
		builder = builder.Set("last_reviewed_at", *update.LastReviewedAt)
	}
	if update.NextReviewAt != nil {
		builder = builder.Set("next_review_at", *update.NextReviewAt)
	}
	if update.KnowCount != nil {
		builder = builder.Set("know_count", *update.KnowCount)
	}
	if update.KnowStreak != nil {
		builder = builder.Set("know_streak", *update.KnowStreak)
	}
	if update.IsMastered != nil {
		builder = builder.Set("is_mastered", *update.IsMastered)
	}
	if update.Lapses != nil {
		builder = builder.Set("lapses", *update.Lapses)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	phrase, err := scanPhrase(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update phrase: %w", err)
	}

	return phrase, nil
}

func (r *phraseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	query := `DELETE FROM phrases WHERE id = $1 AND user_id = $2`

	// Zero rows affected is success: deleting an absent phrase is idempotent.
	_, err := scope.Conn.Exec(ctx, query, id, scope.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete phrase: %w", err)
	}

	return nil
}

func (r *phraseRepository) ReassignCategory(ctx context.Context, fromCategory, toCategory uuid.UUID) (int64, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no user scope in context")
	}

	query := `UPDATE phrases SET category_id = $1 WHERE category_id = $2 AND user_id = $3`

	result, err := scope.Conn.Exec(ctx, query, toCategory, fromCategory, scope.UserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to reassign phrases: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *phraseRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no user scope in context")
	}

	query := `DELETE FROM phrases WHERE category_id = $1 AND user_id = $2`

	result, err := scope.Conn.Exec(ctx, query, categoryID, scope.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete phrases: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanPhrase(row pgx.Row) (*models.Phrase, error) {
	var p models.Phrase
	var transcription, phraseContext *string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.NativeText,
		&p.LearningText,
		&p.CategoryID,
		&transcription,
		&phraseContext,
		&p.MasteryLevel,
		&p.LastReviewedAt,
		&p.NextReviewAt,
		&p.KnowCount,
		&p.KnowStreak,
		&p.IsMastered,
		&p.Lapses,
		&p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan phrase: %w", err)
	}

	// Handle nullable string fields
	if transcription != nil {
		p.Transcription = *transcription
	}
	if phraseContext != nil {
		p.Context = *phraseContext
	}

	return &p, nil
}

// nullIfEmpty returns nil for empty strings so optional text columns store NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
