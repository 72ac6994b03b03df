package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), AccessTTL: time.Hour, Issuer: "homebound"}

	token, err := m.NewToken("user-123")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	sub, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sub != "user-123" {
		t.Fatalf("expected subject user-123, got %q", sub)
	}
}

func TestTokenExpired(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), AccessTTL: -time.Minute, Issuer: "homebound"}

	token, err := m.NewToken("user-123")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), AccessTTL: time.Hour, Issuer: "homebound"}
	token, err := m.NewToken("user-123")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	other := &Manager{Secret: []byte("another-secret"), AccessTTL: time.Hour, Issuer: "homebound"}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("supersafe")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "supersafe" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := ComparePassword(hash, "supersafe"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
