package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserIDFromContext extracts the authenticated user's ID from JWT claims in
// the context. Returns uuid.Nil and false if not authenticated or the subject
// is not a valid UUID.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil || claims.Subject == "" {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

// RequireUserID extracts the user ID from context and returns an error if not found.
// Use this in services where an authenticated user is required.
func RequireUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return userID, nil
}
