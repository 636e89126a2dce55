// Package deck holds the embedded English starter deck used to seed a new
// learner's account, plus the language tables the translation pipeline
// depends on.
package deck

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed template.json
var templateJSON []byte

// TemplateCategory is a category entry in the starter deck. IDs are local to
// the template and only used to link phrases to their category.
type TemplateCategory struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	IsFoundational bool   `json:"isFoundational"`
}

// TemplatePhrase is a phrase entry in the starter deck, written in English.
type TemplatePhrase struct {
	Category int    `json:"category"`
	English  string `json:"english"`
	Context  string `json:"context"`
}

// Template is the full starter deck.
type Template struct {
	Categories []TemplateCategory `json:"categories"`
	Phrases    []TemplatePhrase   `json:"phrases"`
}

// Load parses the embedded starter deck. It validates that every phrase
// points at a category that exists in the template.
func Load() (*Template, error) {
	var t Template
	if err := json.Unmarshal(templateJSON, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template deck: %w", err)
	}
	if len(t.Categories) == 0 || len(t.Phrases) == 0 {
		return nil, fmt.Errorf("template deck is empty")
	}

	ids := make(map[int]bool, len(t.Categories))
	for _, c := range t.Categories {
		ids[c.ID] = true
	}
	for _, p := range t.Phrases {
		if !ids[p.Category] {
			return nil, fmt.Errorf("template phrase %q references unknown category %d", p.English, p.Category)
		}
	}

	return &t, nil
}
