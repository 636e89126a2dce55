package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrOnboardingRequired = errors.New("onboarding not completed")
	ErrTranslationFailed  = errors.New("translation failed")
)
