package utils

import (
	"testing"
)

func TestJWT(t *testing.T) {
	secret := "supersecret"
	email := "user@example.com"

	token, err := GenerateToken(email, true, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.Email != email {
		t.Errorf("Expected Email %s, got %s", email, claims.Email)
	}

	if !claims.IsAdmin {
		t.Errorf("Expected IsAdmin true")
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestJWTNonAdmin(t *testing.T) {
	token, err := GenerateToken("plain@example.com", false, "secret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.IsAdmin {
		t.Errorf("Expected IsAdmin false")
	}
}
