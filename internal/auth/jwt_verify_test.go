package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var testCfg = Config{Issuer: "https://test-issuer.example", Secret: "test-secret"}

func TestParseAndVerifyToken_Success(t *testing.T) {
	verifier := NewVerifier(testCfg)
	tok, err := TestToken(testCfg, "user-42", []string{"DOCTOR", "ADMIN"})
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}

	pr, err := verifier.ParseAndVerifyToken(tok)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if pr.UserID != "user-42" {
		t.Errorf("Expected user id 'user-42', got %q", pr.UserID)
	}
	if len(pr.Roles) != 2 || pr.Roles[0] != "DOCTOR" {
		t.Errorf("Expected roles [DOCTOR ADMIN], got %v", pr.Roles)
	}
}

func TestParseAndVerifyToken_EmptyToken(t *testing.T) {
	verifier := NewVerifier(testCfg)
	if _, err := verifier.ParseAndVerifyToken(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("Expected ErrNoToken, got %v", err)
	}
}

func TestParseAndVerifyToken_WrongSecret(t *testing.T) {
	verifier := NewVerifier(testCfg)
	tok, err := TestToken(Config{Issuer: testCfg.Issuer, Secret: "other-secret"}, "user-1", nil)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	if _, err := verifier.ParseAndVerifyToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAndVerifyToken_WrongIssuer(t *testing.T) {
	verifier := NewVerifier(testCfg)
	tok, err := TestToken(Config{Issuer: "https://evil.example", Secret: testCfg.Secret}, "user-1", nil)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	if _, err := verifier.ParseAndVerifyToken(tok); !errors.Is(err, ErrInvalidIssuer) {
		t.Errorf("Expected ErrInvalidIssuer, got %v", err)
	}
}

func TestParseAndVerifyToken_Expired(t *testing.T) {
	verifier := NewVerifier(testCfg)
	claims := jwt.MapClaims{
		"iss":   testCfg.Issuer,
		"sub":   "user-1",
		"exp":   time.Now().Add(-time.Hour).Unix(),
		"roles": []string{"ADMIN"},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.Secret))
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	if _, err := verifier.ParseAndVerifyToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAndVerifyToken_MissingSub(t *testing.T) {
	verifier := NewVerifier(testCfg)
	claims := jwt.MapClaims{
		"iss": testCfg.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.Secret))
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	if _, err := verifier.ParseAndVerifyToken(tok); !errors.Is(err, ErrMissingSub) {
		t.Errorf("Expected ErrMissingSub, got %v", err)
	}
}

func TestParseAndVerifyToken_RejectsUnsignedToken(t *testing.T) {
	verifier := NewVerifier(testCfg)
	claims := jwt.MapClaims{
		"iss": testCfg.Issuer,
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to mint token: %v", err)
	}
	if _, err := verifier.ParseAndVerifyToken(tok); err == nil {
		t.Error("Expected error for alg=none token")
	}
}
