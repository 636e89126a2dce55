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

// CategoryRepository provides data access for phrase categories.
// Every statement filters by the scoped user's ID in addition to any entity
// ID; a row that exists but belongs to another user is indistinguishable
// from one that does not exist.
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByName(ctx context.Context, name string) (*models.Category, error)
}

type categoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository() CategoryRepository {
	return &categoryRepository{}
}

var _ CategoryRepository = (*categoryRepository)(nil)

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, name, color, is_foundational, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at, name`

	rows, err := scope.Conn.Query(ctx, query, scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	query := `
		INSERT INTO categories (user_id, name, color, is_foundational)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := scope.Conn.QueryRow(ctx, query,
		scope.UserID,
		category.Name,
		category.Color,
		category.IsFoundational,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		// The (user_id, name) unique index resolves concurrent same-name
		// creates; no application-level pre-check.
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	category.UserID = scope.UserID
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	builder := psql.Update("categories").
		Where("id = ?", id).
		Where("user_id = ?", scope.UserID).
		Suffix("RETURNING id, user_id, name, color, is_foundational, created_at")

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.Color != nil {
		builder = builder.Set("color", *update.Color)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	category, err := scanCategory(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	result, err := scope.Conn.Exec(ctx, query, id, scope.UserID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, name, color, is_foundational, created_at
		FROM categories
		WHERE user_id = $1 AND name = $2`

	category, err := scanCategory(scope.Conn.QueryRow(ctx, query, scope.UserID, name))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return category, nil
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Color,
		&c.IsFoundational,
		&c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &c, nil
}
