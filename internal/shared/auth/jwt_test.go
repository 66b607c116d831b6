package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("secret", "development", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign("alice", "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.SessionID != "sess-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	signer, _ := NewSigner("secret", "development", time.Hour)
	other, _ := NewSigner("other", "development", time.Hour)

	token, err := other.Sign("alice", "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := signer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }
	token, err = signer.Sign("alice", "sess-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := signer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := signer.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", "production", time.Hour); err == nil {
		t.Fatalf("expected error without secret in production")
	}
	if _, err := NewSigner("", "development", time.Hour); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}
}
