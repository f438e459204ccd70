package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TriggerHandler serves the token-authenticated programmatic send endpoint.
type TriggerHandler struct {
	bridge BridgeService
	logger *slog.Logger
}

// NewTriggerHandler creates the trigger API handler.
func NewTriggerHandler(log *slog.Logger, bridge BridgeService) *TriggerHandler {
	return &TriggerHandler{
		bridge: bridge,
		logger: log.With(slog.String("handler", "trigger")),
	}
}

// Register mounts POST /api/trigger on the Echo instance.
func (h *TriggerHandler) Register(e *echo.Echo) {
	e.POST("/api/trigger", h.Execute)
}

type triggerRequest struct {
	TriggerID string `json:"trigger_id"`
}

// Execute runs a trigger. Validation failures (bad token, unknown id,
// inactive trigger) come back as structured codes in a 200 body; only an
// unreachable directory is a transport-level failure.
func (h *TriggerHandler) Execute(c echo.Context) error {
	var req triggerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
	}

	result, err := h.bridge.ExecuteTrigger(c.Request().Context(), req.TriggerID, c.Request().Header.Get("x-auth-token"))
	if err != nil {
		h.logger.Error("trigger execution failed",
			slog.String("trigger_id", req.TriggerID),
			slog.Any("error", err),
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "trigger execution failed"})
	}
	return c.JSON(http.StatusOK, result)
}
