package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/server"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store/memstore"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Store
	var (
		st           store.Store
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		st = memstore.New()
	case config.StoreDriverPostgres:
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		st = store.NewGormStore(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		logging.Setup(pgLogHandler)
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)
	default:
		slog.Error("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// Collaborators
	var mailer services.OTPSender
	if cfg.IsProduction() {
		m, err := notify.NewMailer(ctx, cfg.AWSRegion, cfg.NotifyEmail, cfg.AppBaseURL, cfg.BaseURL)
		if err != nil {
			slog.Error("email client init failed", "error", err)
			os.Exit(1)
		}
		mailer = m
	}

	var google services.IdentityExchanger
	if cfg.GoogleClientID != "" {
		g, err := services.NewGoogleClient(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret)
		if err != nil {
			slog.Error("google sign-in disabled", "error", err)
		} else {
			google = g
		}
	}

	gateway := payments.NewGateway(payments.Config{
		SecretKey:      cfg.StripeSecretKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		MonthPriceID:   cfg.StripeMonthPriceID,
		YearPriceID:    cfg.StripeYearPriceID,
		PortalConfigID: cfg.StripePortalConfigID,
		SuccessURL:     cfg.PaymentSuccessURL,
		CancelURL:      cfg.PaymentCancelURL,
		ReturnURL:      cfg.PaymentReturnURL,
	})

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := server.New(server.Options{
		Config:    cfg,
		Store:     st,
		Tokens:    services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		OTPs:      services.NewMemoryOTPStore(),
		Mailer:    mailer,
		Google:    google,
		Gateway:   gateway,
		Tracker:   analytics.NewClient(cfg.AnalyticsMeasurementID, cfg.AnalyticsAPISecret),
		Limits:    routes.DefaultLimits,
		AccessLog: true,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
