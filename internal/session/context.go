// Package session carries the authenticated caller through a fiber request.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

var ErrNoPrincipal = errors.New("no principal in context")

// SetPrincipal stores p on the request.
func SetPrincipal(c *fiber.Ctx, p *services.Principal) {
	c.Locals(principalKey, p)
}

// GetPrincipal returns the caller resolved by the authentication middleware.
func GetPrincipal(c *fiber.Ctx) (*services.Principal, error) {
	p, ok := c.Locals(principalKey).(*services.Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// GetToken extracts the verified credential jwtware leaves in locals.
func GetToken(c *fiber.Ctx) *jwt.Token {
	token, _ := c.Locals("user").(*jwt.Token)
	return token
}

// UserID returns the caller's id as a string, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	if p, err := GetPrincipal(c); err == nil {
		return p.ID().String()
	}
	return ""
}
