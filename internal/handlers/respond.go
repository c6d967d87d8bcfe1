package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// reply writes the envelope for a service result. Every outcome, failures
// included, is sent with HTTP 200.
func reply(c *fiber.Ctx, data any, err error) error {
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK(data))
}

func fail(c *fiber.Ctx, err error) error {
	switch services.KindOf(err) {
	case services.KindInternal, services.KindUpstream:
		slog.Error("request failed",
			"path", c.Path(),
			"request_id", requestID(c),
			"user_id", session.UserID(c),
			"error", err,
		)
	}
	return c.JSON(dto.Fail(services.CodeOf(err)))
}

// parseBody decodes the JSON body into out. Only a body that is not JSON is a
// transport error, answered with HTTP 400 text. A well formed body with a
// mistyped field leaves that field zero and lets the service reject it.
func parseBody(c *fiber.Ctx, out any) bool {
	err := c.BodyParser(out)
	var typeErr *json.UnmarshalTypeError
	if err == nil || errors.As(err, &typeErr) {
		return true
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	_ = c.Status(fiber.StatusBadRequest).SendString("Invalid request body")
	return false
}

// principal returns the caller. Routes reaching it are always behind Authenticate.
func principal(c *fiber.Ctx) (*services.Principal, error) {
	p, err := session.GetPrincipal(c)
	if err != nil {
		return nil, services.ErrMissingCredential
	}
	return p, nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
