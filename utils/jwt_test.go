package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("acct-1", time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	id, err := ExtractIDFromToken(token)
	if err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if id != "acct-1" {
		t.Fatalf("expected subject acct-1, got %q", id)
	}
}

func TestExtractIDFromToken_RejectsExpired(t *testing.T) {
	token, err := GenerateToken("acct-1", -time.Hour)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if _, err := ExtractIDFromToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestExtractIDFromToken_RejectsGarbage(t *testing.T) {
	if _, err := ExtractIDFromToken("not-a-token"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}
