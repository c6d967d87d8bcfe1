package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	billingService *services.BillingService
}

func NewWebhookHandler(billingService *services.BillingService) *WebhookHandler {
	return &WebhookHandler{billingService: billingService}
}

// HandleStripe verifies the Stripe-Signature header against the raw body
// before applying the event.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	event, err := h.billingService.ParseEvent(payload, c.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("stripe webhook rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error.")
	}

	if err := h.billingService.HandleEvent(c.UserContext(), event); err != nil {
		slog.Error("webhook processing failed", "event_id", event.ID, "event_type", event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook Error.")
	}

	slog.Info("webhook processed", "event_id", event.ID, "event_type", event.Type)
	return c.JSON(dto.WebhookAck{Received: true})
}
