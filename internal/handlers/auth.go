// Package handlers provides the HTTP API handlers for the admin server.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatlinkhq/chatlink/internal/auth"
	"github.com/chatlinkhq/chatlink/internal/config"
)

// AuthHandler serves /auth/login and issues JWTs for the configured admin
// account.
type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body (access_token, expires_at).
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// NewAuthHandler creates an auth handler from the auth configuration.
func NewAuthHandler(log *slog.Logger, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: log.With(slog.String("handler", "auth")),
	}
}

// Register mounts POST /auth/login on the Echo instance.
func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
}

// Login validates the admin credentials and issues a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	if strings.TrimSpace(h.cfg.JWTSecret) == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "jwt secret not configured")
	}
	if strings.TrimSpace(h.cfg.AdminUsername) == "" || strings.TrimSpace(h.cfg.AdminPasswordHash) == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "admin account not configured")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	if req.Username != h.cfg.AdminUsername {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		h.logger.Warn("login rejected", slog.String("username", req.Username))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := auth.GenerateToken(req.Username, h.cfg.JWTSecret, h.cfg.JWTExpiry())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	})
}
