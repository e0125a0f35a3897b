package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("ada@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	email, err := ParseJWTEmail(token)
	if err != nil {
		t.Fatalf("ParseJWTEmail() error = %v", err)
	}
	if email != "ada@example.com" {
		t.Errorf("ParseJWTEmail() = %q, want %q", email, "ada@example.com")
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("ada@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ParseJWTEmail(token + "x"); err == nil {
		t.Error("ParseJWTEmail() accepted a tampered token")
	}

	t.Setenv("JWT_SECRET", "a-different-secret")
	if _, err := ParseJWTEmail(token); err == nil {
		t.Error("ParseJWTEmail() accepted a token signed with another secret")
	}
}
