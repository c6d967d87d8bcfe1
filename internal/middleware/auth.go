package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

const TokenHeader = "X-Prompter-Token"

// JWTProtected verifies the HS256 credential in TokenHeader. Failures are
// reported in the response envelope with HTTP 200.
func JWTProtected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: secret},
		TokenLookup: "header:" + TokenHeader,
		AuthScheme:  "",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) && c.Get(TokenHeader) == "" {
				return c.JSON(dto.Fail(dto.CodeMissingToken))
			}
			return c.JSON(dto.Fail(dto.CodeInvalidToken))
		},
	})
}

// Authenticate resolves the verified credential into a principal. It must run
// after JWTProtected.
func Authenticate(resolver *services.PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := resolver.FromToken(c.UserContext(), session.GetToken(c))
		if err != nil {
			return c.JSON(dto.Fail(services.CodeOf(err)))
		}
		session.SetPrincipal(c, p)
		return c.Next()
	}
}
