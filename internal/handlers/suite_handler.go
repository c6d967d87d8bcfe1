package handlers

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SuiteHandler struct {
	suiteService *services.SuiteService
}

func NewSuiteHandler(suiteService *services.SuiteService) *SuiteHandler {
	return &SuiteHandler{suiteService: suiteService}
}

func (h *SuiteHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	suites, err := h.suiteService.List(c.UserContext(), p)
	return reply(c, suites, err)
}

func (h *SuiteHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.CreateSuiteRequest
	if !parseBody(c, &req) {
		return nil
	}
	suite, err := h.suiteService.Create(c.UserContext(), p, req.Name)
	return reply(c, suite, err)
}

func (h *SuiteHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.RenameRequest
	if !parseBody(c, &req) {
		return nil
	}
	suite, err := h.suiteService.Rename(c.UserContext(), p, req.ID, req.Name)
	return reply(c, suite, err)
}

func (h *SuiteHandler) Remove(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.IDRequest
	if !parseBody(c, &req) {
		return nil
	}
	return reply(c, nil, h.suiteService.Remove(c.UserContext(), p, req.ID))
}
