package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SMSHandler accepts inbound SMS webhooks from the gateway.
type SMSHandler struct {
	bridge BridgeService
	logger *slog.Logger
}

// NewSMSHandler creates the inbound SMS webhook handler.
func NewSMSHandler(log *slog.Logger, bridge BridgeService) *SMSHandler {
	return &SMSHandler{
		bridge: bridge,
		logger: log.With(slog.String("handler", "sms")),
	}
}

// Register mounts POST /twilio on the Echo instance.
func (h *SMSHandler) Register(e *echo.Echo) {
	e.POST("/twilio", h.Inbound)
}

// Inbound relays one gateway message into chat. The response is 200 with an
// empty body no matter what happened internally: a failure-shaped reply would
// only make the gateway retry and amplify load, and the loss model here is
// log-and-drop.
func (h *SMSHandler) Inbound(c echo.Context) error {
	from := c.FormValue("From")
	to := c.FormValue("To")
	body := c.FormValue("Body")

	if err := h.bridge.HandleInboundSMS(c.Request().Context(), from, to, body); err != nil {
		h.logger.Error("inbound sms relay failed",
			slog.String("from", from),
			slog.Any("error", err),
		)
	}
	return c.NoContent(http.StatusOK)
}
