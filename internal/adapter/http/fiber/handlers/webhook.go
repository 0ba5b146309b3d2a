package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/ports"
)

const (
	signatureHeader = "x-razorpay-signature"
	eventIDHeader   = "x-razorpay-event-id"
)

type WebhookHandler struct {
	service ports.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service ports.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

// Receive handles inbound gateway deliveries. The raw body must reach the
// verifier untouched, so no body parsing happens before the signature check.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get(signatureHeader)
	eventID := c.Get(eventIDHeader)

	if err := h.service.Process(c.Context(), body, signature, eventID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
