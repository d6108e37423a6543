package auth

import (
	"testing"
	"time"
)

func TestHMACStrategyRoundTrip(t *testing.T) {
	s := NewHMACStrategy("test-secret", Options{})
	token, err := s.IssueToken(41)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 41 {
		t.Fatalf("expected subject 41, got %d", userID)
	}
}

func TestHMACStrategyRejectsTampering(t *testing.T) {
	s := NewHMACStrategy("test-secret", Options{})
	token, _ := s.IssueToken(7)

	other := NewHMACStrategy("other-secret", Options{})
	if _, err := other.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected invalid token across secrets, got %v", err)
	}

	if _, err := s.ParseToken("not-base64!!"); err != ErrInvalidToken {
		t.Fatalf("expected invalid token for garbage, got %v", err)
	}
	if _, err := s.ParseToken(""); err != ErrInvalidToken {
		t.Fatalf("expected invalid token for empty input, got %v", err)
	}
}

func TestHMACStrategyRejectsExpired(t *testing.T) {
	s := NewHMACStrategy("test-secret", Options{TTL: time.Minute})
	token, _ := s.IssueToken(7)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := s.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Compare(hash, "hunter2"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := h.Compare(hash, "hunter3"); err != ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestOperatorGate(t *testing.T) {
	gate := NewOperatorGate("ops-secret")
	if !gate.Verify("ops-secret") {
		t.Fatal("expected matching secret to verify")
	}
	if gate.Verify("nope") {
		t.Fatal("expected mismatched secret to fail")
	}
	if NewOperatorGate("").Verify("") {
		t.Fatal("empty configured secret must never verify")
	}
}
