package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatlinkhq/chatlink/internal/linktoken"
	"github.com/chatlinkhq/chatlink/internal/registration"
)

// LinkTokensHandler issues link tokens for bound registrations and verifies
// tokens presented by devices.
type LinkTokensHandler struct {
	service *registration.Service
	issuer  *linktoken.Issuer
	window  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewLinkTokensHandler creates a LinkTokensHandler. A non-positive window
// falls back to the issuer default.
func NewLinkTokensHandler(log *slog.Logger, service *registration.Service, issuer *linktoken.Issuer, window time.Duration) *LinkTokensHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LinkTokensHandler{
		service: service,
		issuer:  issuer,
		window:  window,
		logger:  log.With(slog.String("handler", "link_tokens")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register registers link token routes. Verification is public so devices
// can call it without an admin JWT.
func (h *LinkTokensHandler) Register(e *echo.Echo) {
	e.POST("/registrations/:id/link_token", h.Issue)
	e.POST("/link_tokens/verify", h.Verify)
}

type issueTokenResponse struct {
	Token   string            `json:"token"`
	Payload linktoken.Payload `json:"payload"`
}

// Issue produces a fresh token for the chat bound to the registration.
func (h *LinkTokensHandler) Issue(c echo.Context) error {
	if h.service == nil || h.issuer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "link token issuer not available")
	}
	reg, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "registration not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !reg.Bound() {
		return echo.NewHTTPError(http.StatusConflict, "registration is not bound to a chat")
	}
	payload := h.issuer.Issue(reg.BoundChannelID, h.now())
	token, err := payload.Encode()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, issueTokenResponse{
		Token:   token,
		Payload: payload,
	})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid     bool   `json:"valid"`
	ChannelID string `json:"channel_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Verify checks a token's signature and freshness and, when valid, returns
// the chat identity it addresses.
func (h *LinkTokensHandler) Verify(c echo.Context) error {
	if h.issuer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "link token issuer not available")
	}
	var req verifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Token) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	payload, err := linktoken.Decode(req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, verifyTokenResponse{Valid: false, Reason: "malformed"})
	}
	if err := h.issuer.Verify(payload, h.now(), h.window); err != nil {
		h.logger.Info("token rejected", slog.Any("error", err))
		return c.JSON(http.StatusUnauthorized, verifyTokenResponse{Valid: false, Reason: verifyReason(err)})
	}
	return c.JSON(http.StatusOK, verifyTokenResponse{
		Valid:     true,
		ChannelID: payload.ChannelID,
	})
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, linktoken.ErrStale):
		return "stale"
	case errors.Is(err, linktoken.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, linktoken.ErrBadVersion):
		return "bad_version"
	default:
		return "malformed"
	}
}
