package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a user-owned grouping of phrases. Name is unique within a
// user's namespace; the constraint lives in the database.
type Category struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"` // hex RGB, e.g. "#FF8800"
	IsFoundational bool      `json:"is_foundational"`
	CreatedAt      time.Time `json:"created_at"`
}

// CategoryUpdate carries the updatable category fields. Nil fields are
// left unchanged.
type CategoryUpdate struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}
