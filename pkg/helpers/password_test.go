package helpers

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "Abc12345!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "" {
		t.Error("expected non-empty hash")
	}
	if hash == password {
		t.Error("hash should not equal plaintext password")
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	password := "Abc12345!"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash1 == hash2 {
		t.Error("same password should produce different hashes due to salt")
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	password := "Abc12345!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !CheckPassword(hash, password) {
		t.Error("expected correct password to match")
	}
}

func TestCheckPassword_Incorrect(t *testing.T) {
	hash, err := HashPassword("Abc12345!")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if CheckPassword(hash, "wrongPassword456") {
		t.Error("expected wrong password to fail")
	}
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "Abc12345!") {
		t.Error("expected garbage hash to fail verification")
	}
}
