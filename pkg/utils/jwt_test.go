package utils

import (
	"testing"

	"github.com/moride/moride-backend/internal/models"
	"gorm.io/gorm"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Model: gorm.Model{ID: 42},
		Email: "rider@example.com",
		Role:  models.UserRoleClient,
	}

	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := TokenUserID(tokenString)
	if err != nil {
		t.Fatalf("TokenUserID: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestTokenUserIDRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := TokenUserID("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestTokenUserIDRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	user := &models.User{Model: gorm.Model{ID: 7}, Email: "d@example.com", Role: models.UserRoleDriver}
	tokenString, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := TokenUserID(tokenString); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}
