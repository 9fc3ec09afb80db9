package jwtverify_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zibbid/postboard/internal/common/constants"
	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/common/jwtverify"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"id":    float64(42),
		"email": "user@example.com",
		"role":  "USER",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestVerifier_Parse_Success(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)
	token := signToken(t, constants.TestJWTSecret, validClaims())

	claims, err := verifier.Parse(token)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}

	if claims.Email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %s", claims.Email)
	}

	if claims.Role != "USER" {
		t.Errorf("expected role USER, got %s", claims.Role)
	}
}

func TestVerifier_Parse_WrongSecret(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)
	token := signToken(t, "another-secret-that-is-long-enough!!", validClaims())

	_, err := verifier.Parse(token)

	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestVerifier_Parse_Expired(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, constants.TestJWTSecret, claims)

	_, err := verifier.Parse(token)

	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestVerifier_Parse_WrongSigningMethod(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = verifier.Parse(signed)

	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestVerifier_Parse_MissingClaims(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"no id", func(c jwt.MapClaims) { delete(c, "id") }},
		{"zero id", func(c jwt.MapClaims) { c["id"] = float64(0) }},
		{"no email", func(c jwt.MapClaims) { delete(c, "email") }},
		{"no role", func(c jwt.MapClaims) { delete(c, "role") }},
	}

	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)
			token := signToken(t, constants.TestJWTSecret, claims)

			_, err := verifier.Parse(token)

			if !errors.Is(err, commonerrors.ErrMissingTokenClaims) {
				t.Errorf("expected missing claims error, got %v", err)
			}
		})
	}
}

func TestVerifier_FromRequest(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)
	token := signToken(t, constants.TestJWTSecret, validClaims())

	r := httptest.NewRequest("GET", "/posts", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims, err := verifier.FromRequest(r)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
}

func TestVerifier_FromRequest_MissingHeader(t *testing.T) {
	verifier := jwtverify.NewVerifier(constants.TestJWTSecret)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no bearer prefix", "Token abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/posts", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			_, err := verifier.FromRequest(r)

			if !errors.Is(err, commonerrors.ErrMissingAuthorization) {
				t.Errorf("expected missing authorization error, got %v", err)
			}
		})
	}
}
