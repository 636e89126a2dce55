//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-engine/pkg/database"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/testhelpers"
)

// userContext acquires a connection scoped to userID and returns a context
// carrying it plus a release func. Mirrors what the scope middleware does
// per request.
func userContext(t *testing.T, engineDB *testhelpers.EngineDB, userID uuid.UUID) (context.Context, func()) {
	t.Helper()
	scope, err := engineDB.DB.WithUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to acquire user scope: %v", err)
	}
	return database.SetUserScope(context.Background(), scope), scope.Close
}

// purgeUsers removes every row owned by the given users so tests stay
// independent of each other.
func purgeUsers(t *testing.T, engineDB *testhelpers.EngineDB, userIDs ...uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	for _, id := range userIDs {
		_, _ = engineDB.DB.Exec(ctx, "DELETE FROM phrases WHERE user_id = $1", id)
		_, _ = engineDB.DB.Exec(ctx, "DELETE FROM categories WHERE user_id = $1", id)
		_, _ = engineDB.DB.Exec(ctx, "DELETE FROM user_profiles WHERE user_id = $1", id)
	}
}

// mustCreateCategory inserts a category for the scoped user and fails the
// test on error.
func mustCreateCategory(t *testing.T, ctx context.Context, repo CategoryRepository, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Color: "#336699"}
	if err := repo.Create(ctx, category); err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return category
}
