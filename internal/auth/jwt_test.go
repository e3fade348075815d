package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateToken(t *testing.T) {
	signed, expiresAt, err := GenerateToken("admin", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiresAt = %v", expiresAt)
	}

	parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject != "admin" {
		t.Errorf("subject = %q, %v", subject, err)
	}

	if _, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		return []byte("wrong"), nil
	}); err == nil {
		t.Error("token must not validate under a different secret")
	}
}
