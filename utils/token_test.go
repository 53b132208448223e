package utils

import (
	"testing"
	"time"
)

func TestVerificationTokenRoundtrip(t *testing.T) {
	token, err := GenerateVerificationToken("test-secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseVerificationToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("userID = %q, want u1", userID)
	}
}

func TestVerificationTokenWrongSecret(t *testing.T) {
	token, err := GenerateVerificationToken("test-secret", "u1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseVerificationToken("other-secret", token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestVerificationTokenExpired(t *testing.T) {
	token, err := GenerateVerificationToken("test-secret", "u1", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseVerificationToken("test-secret", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerificationTokenRejectsAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", "u1", "u1@example.com", true, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseVerificationToken("test-secret", token); err == nil {
		t.Fatal("access token must not pass verification parsing")
	}
}
