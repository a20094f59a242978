package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("got userID %q, want user-123", claims.UserID)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	raw, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyToken(raw); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	raw, err := NewManager("secret-a", time.Hour).GenerateToken("user-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).VerifyToken(raw); err == nil {
		t.Fatal("expected wrong-secret token to fail verification")
	}
}

func TestMissingSecretIsMisconfiguration(t *testing.T) {
	m := NewManager("", time.Hour)

	if m.Ready() {
		t.Fatal("manager with empty secret should not be ready")
	}

	if _, err := m.GenerateToken("user-123"); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("got %v, want ErrNoSecret", err)
	}

	if _, err := m.VerifyToken("whatever"); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("got %v, want ErrNoSecret", err)
	}
}
