package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-engine/pkg/auth"
	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
	"github.com/fluentdeck/fluentdeck-engine/pkg/services"
)

// mockCategoryService is a configurable mock for handler tests.
type mockCategoryService struct {
	categories   []*models.Category
	category     *models.Category
	deleteResult *services.CategoryDeleteResult
	err          error

	capturedName   string
	capturedColor  string
	capturedTarget *uuid.UUID
	capturedUpdate *models.CategoryUpdate
}

func (m *mockCategoryService) List(ctx context.Context) ([]*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockCategoryService) Create(ctx context.Context, name, color string, isFoundational bool) (*models.Category, error) {
	m.capturedName = name
	m.capturedColor = color
	if m.err != nil {
		return nil, m.err
	}
	if m.category != nil {
		return m.category, nil
	}
	return &models.Category{ID: uuid.New(), Name: name, Color: color, IsFoundational: isFoundational}, nil
}

func (m *mockCategoryService) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	m.capturedUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return &models.Category{ID: id}, nil
}

func (m *mockCategoryService) Delete(ctx context.Context, id uuid.UUID, migrationTargetID *uuid.UUID) (*services.CategoryDeleteResult, error) {
	m.capturedTarget = migrationTargetID
	if m.err != nil {
		return nil, m.err
	}
	if m.deleteResult != nil {
		return m.deleteResult, nil
	}
	return &services.CategoryDeleteResult{}, nil
}

// mockPhraseService is a configurable mock for handler tests.
type mockPhraseService struct {
	phrases []*models.Phrase
	phrase  *models.Phrase
	err     error

	capturedCreate *models.PhraseCreate
	capturedUpdate *models.PhraseUpdate
	deletedID      uuid.UUID
}

func (m *mockPhraseService) List(ctx context.Context) ([]*models.Phrase, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.phrases, nil
}

func (m *mockPhraseService) Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error) {
	m.capturedCreate = create
	if m.err != nil {
		return nil, m.err
	}
	if m.phrase != nil {
		return m.phrase, nil
	}
	return &models.Phrase{ID: uuid.New(), NativeText: create.NativeText, LearningText: create.LearningText, CategoryID: create.CategoryID}, nil
}

func (m *mockPhraseService) Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error) {
	m.capturedUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return &models.Phrase{ID: id}, nil
}

func (m *mockPhraseService) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}

// mockProfileService is a configurable mock for handler tests.
type mockProfileService struct {
	profile *models.UserProfile
	err     error

	capturedUpdate *models.ProfileUpdate
	upsertCalls    int
}

func (m *mockProfileService) Get(ctx context.Context) (*models.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockProfileService) Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	m.capturedUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockProfileService) Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	m.upsertCalls++
	m.capturedUpdate = update
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

// mockBootstrapService is a configurable mock for handler tests.
type mockBootstrapService struct {
	result *services.BootstrapResult
	err    error
}

func (m *mockBootstrapService) Generate(ctx context.Context) (*services.BootstrapResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// newAuthedRequest builds a request carrying validated claims, as the auth
// middleware would leave them.
func newAuthedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	claims := &auth.Claims{Email: "user@example.com"}
	claims.Subject = uuid.NewString()
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}
