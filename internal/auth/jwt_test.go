package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_SignAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")
	accountID := uuid.New()

	token, err := manager.SignAccessToken(accountID, domain.RoleStandard, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	validatedID, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != accountID {
		t.Errorf("expected accountID %s, got %s", accountID, validatedID)
	}
	if role != domain.RoleStandard {
		t.Errorf("expected role 'standard', got %q", role)
	}
}

func TestJWTManager_SignAndValidate_ReviewerRole(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	token, err := manager.SignAccessToken(uuid.New(), domain.RoleReviewer, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	_, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if role != domain.RoleReviewer {
		t.Errorf("expected role 'reviewer', got %q", role)
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	token, err := manager.SignAccessToken(uuid.New(), domain.RoleStandard, -1*time.Hour)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	// Should fail validation due to expiry
	_, _, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !strings.Contains(err.Error(), "expired") && !strings.Contains(err.Error(), "parse token") {
		t.Errorf("expected expiry-related error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "traveldiary-test")
	manager2 := NewJWTManager("different-secret-32-chars-long-for-security!!", "traveldiary-test")

	token, err := manager1.SignAccessToken(uuid.New(), domain.RoleStandard, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	// Validate with a different secret
	_, _, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	malformedTokens := []string{
		"not.a.jwt",
		"invalid-token",
		"header.payload", // Missing signature
	}

	for _, token := range malformedTokens {
		_, _, err := manager.ValidateAccessToken(token)
		if err == nil {
			t.Errorf("expected error for malformed token %q, got nil", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "traveldiary-test")
	manager2 := NewJWTManager(testSecret, "wrong-issuer")

	token, err := manager1.SignAccessToken(uuid.New(), domain.RoleStandard, 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	_, _, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer, got nil")
	}
	if !strings.Contains(err.Error(), "invalid issuer") {
		t.Errorf("expected 'invalid issuer' error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_EmptyString(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	_, _, err := manager.ValidateAccessToken("")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected 'empty' error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_UnknownRole(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	token, err := manager.SignAccessToken(uuid.New(), domain.Role("superuser"), 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	_, _, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for unknown role, got nil")
	}
	if !strings.Contains(err.Error(), "unknown role") {
		t.Errorf("expected 'unknown role' error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_MissingRoleDefaultsToStandard(t *testing.T) {
	manager := NewJWTManager(testSecret, "traveldiary-test")

	token, err := manager.SignAccessToken(uuid.New(), "", 15*time.Minute)
	if err != nil {
		t.Fatalf("SignAccessToken failed: %v", err)
	}

	_, role, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if role != domain.RoleStandard {
		t.Errorf("expected role 'standard', got %q", role)
	}
}
