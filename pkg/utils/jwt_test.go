package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWTToken("rahasia", 7, "loket1", "loket", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWTToken("rahasia", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.IDKaryawan != 7 || claims.Username != "loket1" || claims.Role != "loket" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "7" {
		t.Errorf("expected subject 7, got %q", claims.Subject)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := GenerateJWTToken("rahasia", 1, "a", "admin", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWTToken("lain", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidate_Expired(t *testing.T) {
	token, err := GenerateJWTToken("rahasia", 1, "a", "admin", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWTToken("rahasia", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestMissingSecret(t *testing.T) {
	if _, err := GenerateJWTToken("", 1, "a", "admin", time.Now().Add(time.Hour)); err == nil {
		t.Error("expected error generating without secret")
	}
	if _, err := ValidateJWTToken("", "x.y.z"); err == nil {
		t.Error("expected error validating without secret")
	}
}
