package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword("s3cret", hash) {
		t.Fatalf("expected password check to pass")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected password check to fail")
	}
}

func TestHashPasswordProducesDistinctSalts(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatalf("expected per-hash salt, got identical hashes")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("pw1"); err != nil {
		t.Fatalf("expected short but non-empty password to be accepted, got: %v", err)
	}
	if err := ValidatePassword(""); err == nil {
		t.Fatalf("expected empty password to fail")
	}
	if err := ValidatePassword(strings.Repeat("x", 73)); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got: %v", err)
	}
}
