package web

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("operator-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewTokenService("test-secret", "operator", string(hash), ttl)
}

func TestAuthenticateIssuesValidToken(t *testing.T) {
	tokens := newTestTokenService(t, time.Hour)

	token, err := tokens.Authenticate("operator", "operator-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "operator" {
		t.Fatalf("unexpected username: %s", claims.Username)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	tokens := newTestTokenService(t, time.Hour)

	if _, err := tokens.Authenticate("operator", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := tokens.Authenticate("intruder", "operator-pass"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	tokens := newTestTokenService(t, time.Hour)
	other := NewTokenService("other-secret", "operator", tokens.passwordHash, time.Hour)

	token, err := other.Authenticate("operator", "operator-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := tokens.Validate(token); err == nil {
		t.Fatalf("expected validation failure for foreign signature")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tokens := newTestTokenService(t, time.Hour)
	tokens.ttl = -time.Minute

	token, err := tokens.Authenticate("operator", "operator-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := tokens.Validate(token); err == nil {
		t.Fatalf("expected validation failure for expired token")
	}
}
