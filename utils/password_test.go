package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("CheckPasswordHash() = false for the right password")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("CheckPasswordHash() = true for the wrong password")
	}
}

func TestGenerateRandomToken(t *testing.T) {
	token := GenerateRandomToken(6)
	if len(token) != 6 {
		t.Errorf("len = %d, want 6", len(token))
	}
	for _, c := range token {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			t.Errorf("token %q contains %q outside the charset", token, c)
		}
	}

	if GenerateRandomToken(12) == GenerateRandomToken(12) {
		t.Error("two generated tokens collided")
	}
}
