package handlers

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) Add(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.AddHistoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	history, err := h.historyService.Add(c.UserContext(), p, &req)
	return reply(c, history, err)
}

func (h *HistoryHandler) Label(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.LabelHistoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	history, err := h.historyService.Label(c.UserContext(), p, req.ID, req.Label)
	return reply(c, history, err)
}

func (h *HistoryHandler) RemoveAll(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.ClearHistoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	removed, err := h.historyService.RemoveAll(c.UserContext(), p, req.PromptID)
	return reply(c, fiber.Map{"removed": removed}, err)
}

func (h *HistoryHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.ListHistoryRequest
	if !parseBody(c, &req) {
		return nil
	}
	page, err := h.historyService.List(c.UserContext(), p, &req)
	return reply(c, page, err)
}
