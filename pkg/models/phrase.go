package models

import (
	"time"

	"github.com/google/uuid"
)

// Phrase is a user-owned study card. The six study-progress fields
// (MasteryLevel through Lapses) are client-authoritative: the server only
// persists what the client sends and fills defaults when absent, so every
// API response carries a defined value for each of them.
type Phrase struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	NativeText     string     `json:"native_text"`
	LearningText   string     `json:"learning_text"`
	CategoryID     uuid.UUID  `json:"category_id"`
	Transcription  string     `json:"transcription,omitempty"`
	Context        string     `json:"context,omitempty"`
	MasteryLevel   int        `json:"masteryLevel"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	NextReviewAt   time.Time  `json:"nextReviewAt"`
	KnowCount      int        `json:"knowCount"`
	KnowStreak     int        `json:"knowStreak"`
	IsMastered     bool       `json:"isMastered"`
	Lapses         int        `json:"lapses"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PhraseCreate carries the fields settable at creation. Study-progress
// fields are not settable here; storage defaults apply.
type PhraseCreate struct {
	NativeText    string    `json:"native_text"`
	LearningText  string    `json:"learning_text"`
	CategoryID    uuid.UUID `json:"category_id"`
	Transcription string    `json:"transcription,omitempty"`
	Context       string    `json:"context,omitempty"`
}

// PhraseUpdate carries any subset of updatable phrase fields, including the
// study-progress fields. Nil fields are left unchanged; present fields are
// written as-is (replace-by-field-presence).
type PhraseUpdate struct {
	NativeText     *string    `json:"native_text"`
	LearningText   *string    `json:"learning_text"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Transcription  *string    `json:"transcription"`
	Context        *string    `json:"context"`
	MasteryLevel   *int       `json:"masteryLevel"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	NextReviewAt   *time.Time `json:"nextReviewAt"`
	KnowCount      *int       `json:"knowCount"`
	KnowStreak     *int       `json:"knowStreak"`
	IsMastered     *bool      `json:"isMastered"`
	Lapses         *int       `json:"lapses"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *PhraseUpdate) IsEmpty() bool {
	return u.NativeText == nil && u.LearningText == nil && u.CategoryID == nil &&
		u.Transcription == nil && u.Context == nil && u.MasteryLevel == nil &&
		u.LastReviewedAt == nil && u.NextReviewAt == nil && u.KnowCount == nil &&
		u.KnowStreak == nil && u.IsMastered == nil && u.Lapses == nil
}
