package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatlinkhq/chatlink/internal/registration"
)

// RegistrationsHandler manages device registration records via REST API.
type RegistrationsHandler struct {
	service *registration.Service
	logger  *slog.Logger
}

// NewRegistrationsHandler creates a RegistrationsHandler.
func NewRegistrationsHandler(log *slog.Logger, service *registration.Service) *RegistrationsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RegistrationsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "registrations")),
	}
}

// Register registers registration routes.
func (h *RegistrationsHandler) Register(e *echo.Echo) {
	e.POST("/registrations", h.Create)
	e.GET("/registrations", h.List)
	e.GET("/registrations/:id", h.Get)
	e.PUT("/registrations/:id/status", h.SetStatus)
	e.PUT("/registrations/:id/validity", h.SetValidity)
	e.DELETE("/registrations/:id", h.Delete)
	e.DELETE("/registrations/:id/binding", h.ForceUnbind)
}

type createRegistrationRequest struct {
	Label      string `json:"label,omitempty"`
	Code       string `json:"code,omitempty"`
	Status     string `json:"status,omitempty"`
	ValidFrom  string `json:"valid_from,omitempty"`
	ValidUntil string `json:"valid_until,omitempty"`
}

type createRegistrationResponse struct {
	Registration registration.Registration `json:"registration"`
	Code         string                    `json:"code"`
}

// Create provisions a new registration. The plaintext code is returned
// exactly once, here; only its digest is stored.
func (h *RegistrationsHandler) Create(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	var req createRegistrationRequest
	if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	create := registration.CreateRequest{
		Label: strings.TrimSpace(req.Label),
		Code:  req.Code,
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := registration.ParseStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		create.Status = status
	}
	var err error
	if create.ValidFrom, err = parseDate(req.ValidFrom); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "valid_from must be YYYY-MM-DD")
	}
	if create.ValidUntil, err = parseDate(req.ValidUntil); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "valid_until must be YYYY-MM-DD")
	}

	reg, code, err := h.service.Create(c.Request().Context(), create)
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusCreated, createRegistrationResponse{
		Registration: reg,
		Code:         code,
	})
}

// List returns all registrations.
func (h *RegistrationsHandler) List(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one registration by id.
func (h *RegistrationsHandler) Get(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	reg, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus updates the lifecycle status of a registration.
func (h *RegistrationsHandler) SetStatus(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status, err := registration.ParseStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reg, err := h.service.SetStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

type setValidityRequest struct {
	ValidFrom  string `json:"valid_from,omitempty"`
	ValidUntil string `json:"valid_until,omitempty"`
}

// SetValidity updates the validity window. Empty fields clear the bound.
func (h *RegistrationsHandler) SetValidity(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	var req setValidityRequest
	if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	from, err := parseDate(req.ValidFrom)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "valid_from must be YYYY-MM-DD")
	}
	until, err := parseDate(req.ValidUntil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "valid_until must be YYYY-MM-DD")
	}
	reg, err := h.service.SetValidity(c.Request().Context(), c.Param("id"), from, until)
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

// Delete removes a registration record.
func (h *RegistrationsHandler) Delete(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return registrationHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForceUnbind clears a binding administratively, regardless of holder.
func (h *RegistrationsHandler) ForceUnbind(c echo.Context) error {
	if h.service == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registration service not available")
	}
	reg, err := h.service.ForceUnbind(c.Request().Context(), c.Param("id"))
	if err != nil {
		return registrationHTTPError(err)
	}
	return c.JSON(http.StatusOK, reg)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

func registrationHTTPError(err error) error {
	switch {
	case errors.Is(err, registration.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "registration not found")
	case errors.Is(err, registration.ErrInvalidFormat):
		return echo.NewHTTPError(http.StatusBadRequest, "code must be 6-64 letters, digits, or dashes")
	case errors.Is(err, registration.ErrCodeTaken):
		return echo.NewHTTPError(http.StatusConflict, "code already in use")
	case errors.Is(err, registration.ErrNotBound):
		return echo.NewHTTPError(http.StatusConflict, "registration is not bound")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
