package handlers

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	billingService *services.BillingService
}

func NewOrderHandler(billingService *services.BillingService) *OrderHandler {
	return &OrderHandler{billingService: billingService}
}

func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.CheckoutRequest
	if !parseBody(c, &req) {
		return nil
	}
	url, err := h.billingService.Checkout(c.UserContext(), p, req.Subscription)
	return reply(c, dto.RedirectResponse{URL: url}, err)
}

func (h *OrderHandler) Manage(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	url, err := h.billingService.Portal(c.UserContext(), p)
	return reply(c, dto.RedirectResponse{URL: url}, err)
}
