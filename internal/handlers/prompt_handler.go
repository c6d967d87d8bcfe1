package handlers

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PromptHandler struct {
	promptService *services.PromptService
}

func NewPromptHandler(promptService *services.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

func (h *PromptHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	prompts, err := h.promptService.List(c.UserContext(), p, c.Query("suiteId"))
	return reply(c, prompts, err)
}

func (h *PromptHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.CreatePromptRequest
	if !parseBody(c, &req) {
		return nil
	}
	prompt, err := h.promptService.Create(c.UserContext(), p, req.Name, req.SuiteID)
	return reply(c, prompt, err)
}

func (h *PromptHandler) Duplicate(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.DuplicatePromptRequest
	if !parseBody(c, &req) {
		return nil
	}
	prompt, err := h.promptService.Duplicate(c.UserContext(), p, req.PromptID)
	return reply(c, prompt, err)
}

func (h *PromptHandler) Sync(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.SyncPromptRequest
	if !parseBody(c, &req) {
		return nil
	}
	prompt, err := h.promptService.Sync(c.UserContext(), p, &req)
	return reply(c, prompt, err)
}

func (h *PromptHandler) Rename(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.RenameRequest
	if !parseBody(c, &req) {
		return nil
	}
	prompt, err := h.promptService.Rename(c.UserContext(), p, req.ID, req.Name)
	return reply(c, prompt, err)
}

func (h *PromptHandler) Remove(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.IDRequest
	if !parseBody(c, &req) {
		return nil
	}
	return reply(c, nil, h.promptService.Remove(c.UserContext(), p, req.ID))
}

func (h *PromptHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	detail, err := h.promptService.Get(c.UserContext(), p, c.Query("id"))
	return reply(c, detail, err)
}
