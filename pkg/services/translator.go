package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fluentdeck/fluentdeck-engine/pkg/apperrors"
	"github.com/fluentdeck/fluentdeck-engine/pkg/deck"
	"github.com/fluentdeck/fluentdeck-engine/pkg/llm"
)

// TranslationInput is one item sent to the model, keyed by a caller-chosen id.
type TranslationInput struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// PhraseTranslation is the model's output for one phrase.
type PhraseTranslation struct {
	Native        string
	Learning      string
	Transcription string
}

// TranslationService turns English deck text into the learner's language
// pair. Responses are id-keyed so a reordered or partial model reply is
// detected instead of silently mispaired.
type TranslationService interface {
	// TranslateCategories translates category names into targetLang in a
	// single model call. The returned map has exactly one entry per input id.
	TranslateCategories(ctx context.Context, items []TranslationInput, targetLang string) (map[int]string, error)

	// TranslatePhrases translates phrases into both nativeLang and
	// learningLang, batching calls and pausing between batches. The returned
	// map has exactly one entry per input id.
	TranslatePhrases(ctx context.Context, items []TranslationInput, nativeLang, learningLang string) (map[int]PhraseTranslation, error)
}

type translationService struct {
	client     llm.LLMClient
	batchSize  int
	batchDelay time.Duration
	logger     *zap.Logger
}

// NewTranslationService creates a translation service backed by the given
// model client.
func NewTranslationService(client llm.LLMClient, batchSize int, batchDelay time.Duration, logger *zap.Logger) TranslationService {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &translationService{
		client:     client,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
	}
}

const translatorSystemMessage = "You are a professional translator. Respond with JSON only, no explanations and no markdown fences."

type categoryTranslationRow struct {
	ID          int    `json:"id"`
	Translation string `json:"translation"`
}

func (s *translationService) TranslateCategories(ctx context.Context, items []TranslationInput, targetLang string) (map[int]string, error) {
	if len(items) == 0 {
		return map[int]string{}, nil
	}

	langName, ok := deck.LanguageName(targetLang)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", apperrors.ErrTranslationFailed, targetLang)
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category items: %w", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate these flashcard category names from English to %s.\n\n", langName)
	fmt.Fprintf(&prompt, "Input:\n%s\n\n", payload)
	prompt.WriteString("Return a JSON array with one object per input item, keeping the same \"id\":\n")
	prompt.WriteString(`[{"id": 1, "translation": "..."}]`)

	response, err := s.client.GenerateResponse(ctx, prompt.String(), translatorSystemMessage, 0.3)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	rows, err := parseTranslationRows[categoryTranslationRow](response)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string, len(items))
	for _, row := range rows {
		if _, dup := out[row.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d in response", apperrors.ErrTranslationFailed, row.ID)
		}
		if strings.TrimSpace(row.Translation) == "" {
			return nil, fmt.Errorf("%w: empty translation for id %d", apperrors.ErrTranslationFailed, row.ID)
		}
		out[row.ID] = row.Translation
	}
	if err := checkCoverage(items, func(id int) bool { _, ok := out[id]; return ok }, len(out)); err != nil {
		return nil, err
	}

	return out, nil
}

type phraseTranslationRow struct {
	ID            int    `json:"id"`
	Native        string `json:"native"`
	Learning      string `json:"learning"`
	Transcription string `json:"transcription"`
}

func (s *translationService) TranslatePhrases(ctx context.Context, items []TranslationInput, nativeLang, learningLang string) (map[int]PhraseTranslation, error) {
	if len(items) == 0 {
		return map[int]PhraseTranslation{}, nil
	}

	nativeName, ok := deck.LanguageName(nativeLang)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", apperrors.ErrTranslationFailed, nativeLang)
	}
	learningName, ok := deck.LanguageName(learningLang)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", apperrors.ErrTranslationFailed, learningLang)
	}
	withTranscription := deck.NeedsTranscription(learningLang)

	out := make(map[int]PhraseTranslation, len(items))
	for start := 0; start < len(items); start += s.batchSize {
		if start > 0 && s.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.batchDelay):
			}
		}

		end := start + s.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		s.logger.Debug("translating phrase batch",
			zap.Int("from", start),
			zap.Int("size", len(batch)))

		rows, err := s.translatePhraseBatch(ctx, batch, nativeName, learningName, withTranscription)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if _, dup := out[row.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate id %d in response", apperrors.ErrTranslationFailed, row.ID)
			}
			if strings.TrimSpace(row.Native) == "" || strings.TrimSpace(row.Learning) == "" {
				return nil, fmt.Errorf("%w: empty translation for id %d", apperrors.ErrTranslationFailed, row.ID)
			}
			out[row.ID] = PhraseTranslation{
				Native:        row.Native,
				Learning:      row.Learning,
				Transcription: row.Transcription,
			}
		}
	}

	if err := checkCoverage(items, func(id int) bool { _, ok := out[id]; return ok }, len(out)); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *translationService) translatePhraseBatch(ctx context.Context, batch []TranslationInput, nativeName, learningName string, withTranscription bool) ([]phraseTranslationRow, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode phrase batch: %w", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate these flashcard phrases from English into %s and %s.\n\n", nativeName, learningName)
	fmt.Fprintf(&prompt, "Input:\n%s\n\n", payload)
	prompt.WriteString("Return a JSON array with one object per input item, keeping the same \"id\".\n")
	fmt.Fprintf(&prompt, "\"native\" is the %s translation, \"learning\" is the %s translation.\n", nativeName, learningName)
	if withTranscription {
		fmt.Fprintf(&prompt, "\"transcription\" is a latin-script phonetic transcription of the %s text.\n", learningName)
		prompt.WriteString(`[{"id": 1, "native": "...", "learning": "...", "transcription": "..."}]`)
	} else {
		prompt.WriteString(`[{"id": 1, "native": "...", "learning": "..."}]`)
	}

	response, err := s.client.GenerateResponse(ctx, prompt.String(), translatorSystemMessage, 0.3)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	return parseTranslationRows[phraseTranslationRow](response)
}

// parseTranslationRows strips fences and prose around the model's JSON and
// decodes it strictly.
func parseTranslationRows[T any](response string) ([]T, error) {
	cleaned, err := llm.ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("%w: no JSON in response: %v", apperrors.ErrTranslationFailed, err)
	}
	var rows []T
	if err := json.Unmarshal([]byte(cleaned), &rows); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", apperrors.ErrTranslationFailed, err)
	}
	return rows, nil
}

// checkCoverage verifies exactly one output entry exists per input id.
func checkCoverage(items []TranslationInput, has func(int) bool, got int) error {
	for _, item := range items {
		if !has(item.ID) {
			return fmt.Errorf("%w: missing id %d in response", apperrors.ErrTranslationFailed, item.ID)
		}
	}
	if got != len(items) {
		return fmt.Errorf("%w: expected %d entries, got %d", apperrors.ErrTranslationFailed, len(items), got)
	}
	return nil
}
