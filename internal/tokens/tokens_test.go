package tokens

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/models"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func testDoctor() *models.Doctor {
	return &models.Doctor{
		ID:    primitive.NewObjectID(),
		Name:  "Dr. Alice Moreau",
		Email: "alice@example.com",
	}
}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	d := testDoctor()

	tokenStr, err := GenerateAccessToken(cfg, d, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := VerifyAccessToken(cfg.JWT.Secret, tokenStr)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if claims.DoctorID != d.ID.Hex() {
		t.Fatalf("unexpected id claim: got=%v want=%v", claims.DoctorID, d.ID.Hex())
	}
	if claims.Email != d.Email || claims.Name != d.Name {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	d := testDoctor()
	tokenStr, err := GenerateAccessToken(cfg, d, -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	_, err = VerifyAccessToken(cfg.JWT.Secret, tokenStr)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyAccessToken_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx")
	tokenStr, err := GenerateAccessToken(cfg, testDoctor(), 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	_, err = VerifyAccessToken("different-secret-xxxxxxxxxxxxxxxx", tokenStr)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid with wrong secret, got %v", err)
	}
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	_, err := VerifyAccessToken("x", "not.a.jwt")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for malformed token, got %v", err)
	}
}

// Unsigned tokens must be rejected.
func TestVerifyAccessToken_AlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"abc","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := VerifyAccessToken("x", tok); err == nil {
		t.Fatalf("expected verification to reject alg=none token")
	}
}

// Tampering with the payload must fail signature verification.
func TestVerifyAccessToken_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	d := testDoctor()
	tokenStr, err := GenerateAccessToken(cfg, d, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := base64.RawURLEncoding.DecodeString(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), d.ID.Hex(), primitive.NewObjectID().Hex(), 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payloadStr))
	if _, err := VerifyAccessToken(cfg.JWT.Secret, strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
