package handlers

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) VerifyToken(c *fiber.Ctx) error {
	return reply(c, nil, nil)
}

func (h *UserHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if !parseBody(c, &req) {
		return nil
	}
	return reply(c, nil, h.authService.SendOTP(c.UserContext(), req.Email))
}

func (h *UserHandler) LoginEmail(c *fiber.Ctx) error {
	var req dto.EmailLoginRequest
	if !parseBody(c, &req) {
		return nil
	}
	info, err := h.authService.LoginEmail(c.UserContext(), req.Email, req.OTP)
	return reply(c, info, err)
}

func (h *UserHandler) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if !parseBody(c, &req) {
		return nil
	}
	info, err := h.authService.LoginGoogle(c.UserContext(), req.Code)
	return reply(c, info, err)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, h.authService.UserInfo(p), nil)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateUserRequest
	if !parseBody(c, &req) {
		return nil
	}
	return reply(c, nil, h.authService.UpdateName(c.UserContext(), p, req.Name))
}

func (h *UserHandler) Settings(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, fiber.Map{"openaiSettings": h.authService.Settings(p)}, nil)
}

func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateSettingsRequest
	if !parseBody(c, &req) {
		return nil
	}
	return reply(c, nil, h.authService.UpdateSettings(c.UserContext(), p, &req))
}
