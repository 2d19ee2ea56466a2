package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/odaga/developer-profile-system/internal/model"
	"github.com/odaga/developer-profile-system/internal/service"
)

// StatusHandler serves the health and status endpoints.
type StatusHandler struct {
	svc service.ProfileService
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(svc service.ProfileService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse reports store connectivity and directory aggregates.
type StatusResponse struct {
	Server      string                `json:"server"`
	DBConnected bool                  `json:"dbConnected"`
	Stats       *model.DirectoryStats `json:"stats"`
	CurrentTime time.Time             `json:"currentTime"`
}

// Health godoc
// @Summary Liveness check
// @Tags status
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *StatusHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// Status godoc
// @Summary Store connectivity and directory statistics
// @Tags status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /status [get]
func (h *StatusHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.svc.Ping(ctx); err != nil {
		c.Logger().Errorf("store ping failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, MessageResponse{
			Message: "Service Unavailable",
		})
	}

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, StatusResponse{
		Server:      "up",
		DBConnected: true,
		Stats:       stats,
		CurrentTime: time.Now().UTC(),
	})
}
