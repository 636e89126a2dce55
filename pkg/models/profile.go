package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the one-row-per-user language preference record.
// No row means the user has not completed onboarding, which is a distinct
// state from a row holding default values.
type UserProfile struct {
	UserID           uuid.UUID `json:"user_id"`
	UILanguage       string    `json:"ui_language"`
	NativeLanguage   string    `json:"native_language"`
	LearningLanguage string    `json:"learning_language"`
	SchemaVersion    int       `json:"schema_version"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileUpdate carries the updatable profile fields. Nil fields are left
// unchanged on update; on upsert, nil fields are stored empty.
type ProfileUpdate struct {
	UILanguage       *string `json:"ui_language"`
	NativeLanguage   *string `json:"native_language"`
	LearningLanguage *string `json:"learning_language"`
}
