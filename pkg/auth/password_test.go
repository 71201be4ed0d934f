package auth

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "telemarketer-pass"

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hashed == "" || hashed == password {
		t.Error("Hashed password should be non-empty and differ from the original")
	}

	hashed2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password second time: %v", err)
	}
	if hashed == hashed2 {
		t.Error("Different hashes should be generated for same password (bcrypt salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("telemarketer-pass")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if !CheckPassword(hashed, "telemarketer-pass") {
		t.Error("CheckPassword should return true for correct password")
	}
	if CheckPassword(hashed, "wrong-pass") {
		t.Error("CheckPassword should return false for wrong password")
	}
	if CheckPassword(hashed, "") {
		t.Error("CheckPassword should return false for empty password")
	}
	if CheckPassword("", "telemarketer-pass") {
		t.Error("CheckPassword should return false for empty hash")
	}
}
