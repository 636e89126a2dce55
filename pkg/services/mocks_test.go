package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-engine/pkg/models"
)

// mockCategoryRepository is a configurable mock shared by the service tests.
type mockCategoryRepository struct {
	categories []*models.Category
	byName     map[string]*models.Category

	listErr      error
	createErr    error
	updateErr    error
	deleteErr    error
	getByNameErr error

	// createErrOnce fails only the first Create call, then clears itself.
	createErrOnce error

	created        []*models.Category
	updatedID      uuid.UUID
	capturedUpdate *models.CategoryUpdate
	deletedID      uuid.UUID
	deleteCalls    int
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.categories, nil
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.createErrOnce != nil {
		err := m.createErrOnce
		m.createErrOnce = nil
		// A conflicting insert means another request won the race; its row
		// becomes visible to the follow-up lookup.
		if m.byName == nil {
			m.byName = make(map[string]*models.Category)
		}
		m.byName[category.Name] = &models.Category{ID: uuid.New(), Name: category.Name}
		return err
	}
	if m.createErr != nil {
		return m.createErr
	}
	category.ID = uuid.New()
	m.created = append(m.created, category)
	if m.byName == nil {
		m.byName = make(map[string]*models.Category)
	}
	m.byName[category.Name] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id uuid.UUID, update *models.CategoryUpdate) (*models.Category, error) {
	m.updatedID = id
	m.capturedUpdate = update
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Category{ID: id}, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	m.deleteCalls++
	return m.deleteErr
}

func (m *mockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	if m.getByNameErr != nil {
		return nil, m.getByNameErr
	}
	return m.byName[name], nil
}

// mockPhraseRepository is a configurable mock shared by the service tests.
type mockPhraseRepository struct {
	phrases []*models.Phrase

	listErr     error
	createErr   error
	updateErr   error
	deleteErr   error
	reassignErr error
	deleteByErr error

	reassignCount int64
	deleteByCount int64

	// createFailTexts fails Create for phrases whose native text is listed.
	createFailTexts map[string]error

	created          []*models.PhraseCreate
	capturedFrom     uuid.UUID
	capturedTo       uuid.UUID
	capturedCategory uuid.UUID
	reassignCalls    int
	deleteByCalls    int
}

func (m *mockPhraseRepository) List(ctx context.Context) ([]*models.Phrase, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.phrases, nil
}

func (m *mockPhraseRepository) Create(ctx context.Context, create *models.PhraseCreate) (*models.Phrase, error) {
	if err, failed := m.createFailTexts[create.NativeText]; failed {
		return nil, err
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, create)
	return &models.Phrase{
		ID:           uuid.New(),
		NativeText:   create.NativeText,
		LearningText: create.LearningText,
		CategoryID:   create.CategoryID,
	}, nil
}

func (m *mockPhraseRepository) Update(ctx context.Context, id uuid.UUID, update *models.PhraseUpdate) (*models.Phrase, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Phrase{ID: id}, nil
}

func (m *mockPhraseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteErr
}

func (m *mockPhraseRepository) ReassignCategory(ctx context.Context, fromCategory, toCategory uuid.UUID) (int64, error) {
	m.reassignCalls++
	m.capturedFrom = fromCategory
	m.capturedTo = toCategory
	if m.reassignErr != nil {
		return 0, m.reassignErr
	}
	return m.reassignCount, nil
}

func (m *mockPhraseRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	m.deleteByCalls++
	m.capturedCategory = categoryID
	if m.deleteByErr != nil {
		return 0, m.deleteByErr
	}
	return m.deleteByCount, nil
}

// mockProfileRepository is a configurable mock shared by the service tests.
type mockProfileRepository struct {
	profile *models.UserProfile

	getErr    error
	updateErr error
	upsertErr error

	capturedUpdate *models.ProfileUpdate
	upsertCalls    int
}

func (m *mockProfileRepository) Get(ctx context.Context) (*models.UserProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profile, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	m.capturedUpdate = update
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.profile, nil
}

func (m *mockProfileRepository) Upsert(ctx context.Context, update *models.ProfileUpdate) (*models.UserProfile, error) {
	m.upsertCalls++
	m.capturedUpdate = update
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	return &models.UserProfile{UserID: uuid.New(), SchemaVersion: 1}, nil
}

// mockTranslator is a configurable TranslationService mock.
type mockTranslator struct {
	categoryNames map[int]string
	phrases       map[int]PhraseTranslation

	categoriesErr error
	phrasesErr    error

	capturedCategoryItems []TranslationInput
	capturedPhraseItems   []TranslationInput
	capturedTarget        string
	capturedNative        string
	capturedLearning      string
}

func (m *mockTranslator) TranslateCategories(ctx context.Context, items []TranslationInput, targetLang string) (map[int]string, error) {
	m.capturedCategoryItems = items
	m.capturedTarget = targetLang
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	if m.categoryNames != nil {
		return m.categoryNames, nil
	}
	out := make(map[int]string, len(items))
	for _, item := range items {
		out[item.ID] = item.Text + " (translated)"
	}
	return out, nil
}

func (m *mockTranslator) TranslatePhrases(ctx context.Context, items []TranslationInput, nativeLang, learningLang string) (map[int]PhraseTranslation, error) {
	m.capturedPhraseItems = items
	m.capturedNative = nativeLang
	m.capturedLearning = learningLang
	if m.phrasesErr != nil {
		return nil, m.phrasesErr
	}
	if m.phrases != nil {
		return m.phrases, nil
	}
	out := make(map[int]PhraseTranslation, len(items))
	for _, item := range items {
		out[item.ID] = PhraseTranslation{
			Native:   item.Text + " (native)",
			Learning: item.Text + " (learning)",
		}
	}
	return out, nil
}
