//go:build integration

package repositories

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/testhelpers"
)

func TestCategoryRepository_ListScopedToOwner(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewCategoryRepository()
	alice, bob := uuid.New(), uuid.New()
	defer purgeUsers(t, engineDB, alice, bob)

	ctxA, closeA := userContext(t, engineDB, alice)
	defer closeA()
	ctxB, closeB := userContext(t, engineDB, bob)
	defer closeB()

	mustCreateCategory(t, ctxA, repo, "Greetings")
	mustCreateCategory(t, ctxA, repo, "Food")
	mustCreateCategory(t, ctxB, repo, "Travel")

	forAlice, err := repo.List(ctxA)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(forAlice) != 2 {
		t.Fatalf("expected 2 categories for first user, got %d", len(forAlice))
	}
	for _, c := range forAlice {
		if c.UserID != alice {
			t.Errorf("category %q leaked across users: owner %s", c.Name, c.UserID)
		}
	}

	forBob, err := repo.List(ctxB)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(forBob) != 1 || forBob[0].Name != "Travel" {
		t.Fatalf("unexpected categories for second user: %+v", forBob)
	}
}

func TestCategoryRepository_DuplicateNameConflict(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewCategoryRepository()
	alice, bob := uuid.New(), uuid.New()
	defer purgeUsers(t, engineDB, alice, bob)

	ctxA, closeA := userContext(t, engineDB, alice)
	defer closeA()
	ctxB, closeB := userContext(t, engineDB, bob)
	defer closeB()

	mustCreateCategory(t, ctxA, repo, "Greetings")

	dup := &models.Category{Name: "Greetings", Color: "#FF0000"}
	if err := repo.Create(ctxA, dup); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}

	// The name is only unique within a user's namespace.
	if err := repo.Create(ctxB, &models.Category{Name: "Greetings", Color: "#FF0000"}); err != nil {
		t.Fatalf("same name under another user must succeed, got %v", err)
	}
}

func TestCategoryRepository_GetByName(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewCategoryRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	created := mustCreateCategory(t, ctx, repo, "Numbers")

	found, err := repo.GetByName(ctx, "Numbers")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected created category back, got %+v", found)
	}

	missing, err := repo.GetByName(ctx, "Nonexistent")
	if err != nil {
		t.Fatalf("missing name must not error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing name, got %+v", missing)
	}
}

func TestCategoryRepository_UpdateScopedToOwner(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewCategoryRepository()
	alice, bob := uuid.New(), uuid.New()
	defer purgeUsers(t, engineDB, alice, bob)

	ctxA, closeA := userContext(t, engineDB, alice)
	defer closeA()
	ctxB, closeB := userContext(t, engineDB, bob)
	defer closeB()

	created := mustCreateCategory(t, ctxA, repo, "Colors")

	color := "#ABCDEF"
	updated, err := repo.Update(ctxA, created.ID, &models.CategoryUpdate{Color: &color})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Color != "#ABCDEF" || updated.Name != "Colors" {
		t.Fatalf("partial update changed the wrong fields: %+v", updated)
	}

	// Another user addressing the same id must see not-found, not the row.
	name := "Hijacked"
	if _, err := repo.Update(ctxB, created.ID, &models.CategoryUpdate{Name: &name}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}
}

func TestCategoryRepository_Delete(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewCategoryRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	created := mustCreateCategory(t, ctx, repo, "Temp")

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	categories, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("expected no categories after delete, got %d", len(categories))
	}

	if err := repo.Delete(ctx, created.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting an absent category, got %v", err)
	}
}
