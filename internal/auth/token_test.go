package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	tokenStr, expiresAt, err := tm.GenerateToken("user-123", domain.RoleOperator)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("token already expired")
	}

	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SubjectID != "user-123" {
		t.Errorf("subject = %q, want user-123", claims.SubjectID)
	}
	if claims.Role != domain.RoleOperator {
		t.Errorf("role = %s, want operator", claims.Role)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	tokenStr, _, err := issuer.GenerateToken("user-123", domain.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(tokenStr); err == nil {
		t.Fatal("expected signature verification failure")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ParseToken(tokenStr); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := jwt.MapClaims{
		"sub":  "user-123",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ParseToken(tokenStr); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestParseTokenRejectsWrongSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS384, &Claims{
		SubjectID: "user-123",
		Role:      domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ParseToken(tokenStr); err == nil {
		t.Fatal("expected HS384 token to be rejected")
	}
}
