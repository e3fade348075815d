package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatlinkhq/chatlink/internal/config"
)

func loginRequest(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func testAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthHandler(slog.Default(), config.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecret:         "jwt-secret",
		JWTExpiresIn:      "1h",
	})
}

func TestLogin(t *testing.T) {
	h := testAuthHandler(t)

	rec := loginRequest(t, h, `{"username":"admin","password":"hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "access_token") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLoginRejected(t *testing.T) {
	h := testAuthHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"root","password":"hunter2"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := loginRequest(t, h, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLoginUnconfigured(t *testing.T) {
	h := NewAuthHandler(slog.Default(), config.AuthConfig{})
	if rec := loginRequest(t, h, `{"username":"admin","password":"x"}`); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
