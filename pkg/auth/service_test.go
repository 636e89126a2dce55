package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockJWKSClient is a configurable mock for testing AuthService.
type mockJWKSClient struct {
	claims *Claims
	err    error

	capturedToken string
}

func (m *mockJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	m.capturedToken = tokenString
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func validClaims() *Claims {
	claims := &Claims{Email: "user@example.com"}
	claims.Subject = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	return claims
}

func TestAuthService_ValidateRequest_BearerHeader(t *testing.T) {
	jwks := &mockJWKSClient{claims: validClaims()}
	service := NewAuthService(jwks, zap.NewNop())

	req := httptest.NewRequest("GET", "/phrases", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	claims, token, err := service.ValidateRequest(req)
	if err != nil {
		t.Fatalf("ValidateRequest failed: %v", err)
	}
	if token != "some-token" {
		t.Errorf("expected raw token returned, got %q", token)
	}
	if jwks.capturedToken != "some-token" {
		t.Errorf("expected token passed to JWKS client, got %q", jwks.capturedToken)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_ValidateRequest_MissingHeader(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	req := httptest.NewRequest("GET", "/phrases", nil)

	_, _, err := service.ValidateRequest(req)
	if !errors.Is(err, ErrMissingAuthorization) {
		t.Fatalf("expected ErrMissingAuthorization, got %v", err)
	}
}

func TestAuthService_ValidateRequest_BadFormat(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	for _, header := range []string{"some-token", "Basic dXNlcg==", "Bearer"} {
		req := httptest.NewRequest("GET", "/phrases", nil)
		req.Header.Set("Authorization", header)

		_, _, err := service.ValidateRequest(req)
		if !errors.Is(err, ErrInvalidAuthFormat) {
			t.Errorf("header %q: expected ErrInvalidAuthFormat, got %v", header, err)
		}
	}
}

func TestAuthService_ValidateRequest_ValidationError(t *testing.T) {
	jwks := &mockJWKSClient{err: errors.New("token expired")}
	service := NewAuthService(jwks, zap.NewNop())

	req := httptest.NewRequest("GET", "/phrases", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	_, _, err := service.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected validation error to propagate")
	}
}

func TestAuthService_RequireSubject(t *testing.T) {
	service := NewAuthService(&mockJWKSClient{}, zap.NewNop())

	if err := service.RequireSubject(validClaims()); err != nil {
		t.Errorf("expected no error for claims with subject: %v", err)
	}

	if err := service.RequireSubject(&Claims{}); !errors.Is(err, ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got %v", err)
	}
}
