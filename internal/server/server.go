// Package server assembles the fiber application from its collaborators.
package server

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Options struct {
	Config  *config.Config
	Store   store.Store
	Tokens  *services.TokenIssuer
	OTPs    services.OTPStore
	Mailer  services.OTPSender
	Google  services.IdentityExchanger
	Gateway services.PaymentGateway
	Tracker services.PurchaseTracker
	Limits  routes.Limits
	// AccessLog enables the per-request log line.
	AccessLog bool
}

func New(opts Options) *fiber.App {
	cfg := opts.Config

	quota := services.NewQuotaPolicy(opts.Store)
	authService := services.NewAuthService(opts.Store, opts.Tokens, opts.OTPs, opts.Mailer, opts.Google, cfg.IsProduction())
	suiteService := services.NewSuiteService(opts.Store)
	promptService := services.NewPromptService(opts.Store, quota)
	historyService := services.NewHistoryService(opts.Store, quota)
	billingService := services.NewBillingService(opts.Store, opts.Gateway, opts.Tracker)

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, opts.Tokens, services.NewPrincipalResolver(opts.Store.Users()), routes.Handlers{
		User:    handlers.NewUserHandler(authService),
		Suite:   handlers.NewSuiteHandler(suiteService),
		Prompt:  handlers.NewPromptHandler(promptService),
		History: handlers.NewHistoryHandler(historyService),
		Order:   handlers.NewOrderHandler(billingService),
		Webhook: handlers.NewWebhookHandler(billingService),
		Health:  handlers.NewHealthHandler(opts.Store),
	}, opts.Limits)

	return app
}

// customErrorHandler answers transport-level failures in plain text.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}
