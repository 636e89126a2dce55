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

func languages(ui, native, learning string) *models.ProfileUpdate {
	return &models.ProfileUpdate{
		UILanguage:       &ui,
		NativeLanguage:   &native,
		LearningLanguage: &learning,
	}
}

func TestProfileRepository_GetWithoutRow(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewProfileRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	profile, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("missing profile must not error: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil profile before onboarding, got %+v", profile)
	}
}

func TestProfileRepository_UpsertAndGet(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewProfileRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	created, err := repo.Upsert(ctx, languages("en", "en", "ja"))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if created.SchemaVersion != 1 {
		t.Errorf("schema_version must be 1, got %d", created.SchemaVersion)
	}
	if created.UpdatedAt.IsZero() {
		t.Error("updated_at must be set")
	}

	// A second upsert replaces the row in place.
	replaced, err := repo.Upsert(ctx, languages("en", "en", "zh"))
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if replaced.LearningLanguage != "zh" {
		t.Errorf("upsert must replace, got %+v", replaced)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.LearningLanguage != "zh" || got.UserID != alice {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestProfileRepository_UpdateWithoutRow(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewProfileRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	lang := "fr"
	_, err := repo.Update(ctx, &models.ProfileUpdate{LearningLanguage: &lang})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a row, got %v", err)
	}
}

func TestProfileRepository_PartialUpdate(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	repo := NewProfileRepository()
	alice := uuid.New()
	defer purgeUsers(t, engineDB, alice)

	ctx, release := userContext(t, engineDB, alice)
	defer release()

	if _, err := repo.Upsert(ctx, languages("en", "de", "ru")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	lang := "pl"
	updated, err := repo.Update(ctx, &models.ProfileUpdate{LearningLanguage: &lang})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.LearningLanguage != "pl" {
		t.Errorf("learning_language not updated: %+v", updated)
	}
	if updated.UILanguage != "en" || updated.NativeLanguage != "de" {
		t.Errorf("unsent fields must stay unchanged: %+v", updated)
	}
}
