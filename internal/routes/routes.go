package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	User    *handlers.UserHandler
	Suite   *handlers.SuiteHandler
	Prompt  *handlers.PromptHandler
	History *handlers.HistoryHandler
	Order   *handlers.OrderHandler
	Webhook *handlers.WebhookHandler
	Health  *handlers.HealthHandler
}

// Limits are requests per minute per IP.
type Limits struct {
	API   int
	Login int
}

var DefaultLimits = Limits{API: 120, Login: 10}

func Setup(app *fiber.App, tokens *services.TokenIssuer, resolver *services.PrincipalResolver, h Handlers, limits Limits) {
	app.Get("/health", h.Health.Check)

	// Stripe signs the body; no credential. Registered ahead of the per-IP
	// limiter because retries arrive in bursts from a few addresses.
	app.Post("/v1/webhook/stripe", h.Webhook.HandleStripe)

	v1 := app.Group("/v1")
	v1.Use(perIP(limits.API))

	// Login: stricter limit
	login := perIP(limits.Login)
	v1.Post("/user/sendOtp", login, h.User.SendOTP)
	v1.Post("/user/login/email", login, h.User.LoginEmail)
	v1.Post("/user/login/google", login, h.User.LoginGoogle)

	// Protected routes - middleware applied per route so public routes stay open
	jwt := middleware.JWTProtected(tokens.Secret())
	authn := middleware.Authenticate(resolver)
	protect := func(handler fiber.Handler) []fiber.Handler {
		return []fiber.Handler{jwt, authn, handler}
	}

	v1.Get("/user/verifytoken", protect(h.User.VerifyToken)...)
	v1.Get("/user/me", protect(h.User.Me)...)
	v1.Post("/user/me", protect(h.User.UpdateMe)...)
	v1.Get("/settings/api", protect(h.User.Settings)...)
	v1.Post("/settings/api", protect(h.User.UpdateSettings)...)

	v1.Post("/order/stripe/pay", protect(h.Order.Pay)...)
	v1.Get("/order/stripe/manage", protect(h.Order.Manage)...)

	v1.Get("/suite/list", protect(h.Suite.List)...)
	v1.Post("/suite/create", protect(h.Suite.Create)...)
	v1.Post("/suite/update", protect(h.Suite.Update)...)
	v1.Post("/suite/remove", protect(h.Suite.Remove)...)

	v1.Get("/prompt/list", protect(h.Prompt.List)...)
	v1.Post("/prompt/create", protect(h.Prompt.Create)...)
	v1.Post("/prompt/duplicate", protect(h.Prompt.Duplicate)...)
	v1.Post("/prompt/sync", protect(h.Prompt.Sync)...)
	v1.Post("/prompt/rename", protect(h.Prompt.Rename)...)
	v1.Post("/prompt/remove", protect(h.Prompt.Remove)...)
	v1.Get("/prompt/get", protect(h.Prompt.Get)...)

	v1.Post("/history/add", protect(h.History.Add)...)
	v1.Post("/history/label", protect(h.History.Label)...)
	v1.Post("/history/removeall", protect(h.History.RemoveAll)...)
	v1.Post("/history/list", protect(h.History.List)...)

	app.Use(func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	})
}

func perIP(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
