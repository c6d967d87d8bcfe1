package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	// Server
	Port       string
	AppEnv     string
	AppBaseURL string
	BaseURL    string

	// Storage
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Credentials
	JWTSecret string
	JWTExpiry time.Duration

	// Login email
	NotifyEmail string
	AWSRegion   string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string

	// Stripe
	StripeSecretKey      string
	StripeWebhookSecret  string
	StripeMonthPriceID   string
	StripeYearPriceID    string
	StripePortalConfigID string
	PaymentSuccessURL    string
	PaymentCancelURL     string
	PaymentReturnURL     string

	// Google Analytics measurement protocol
	AnalyticsMeasurementID string
	AnalyticsAPISecret     string

	SentryDSN    string
	LogRetention time.Duration
}

// Load reads the environment. A .env file in the working directory is
// applied first when present; variables already set take precedence.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}

	return &Config{
		Port:       getEnv("PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		AppBaseURL: getEnv("APP_BASE_URL", ""),
		BaseURL:    getEnv("BASE_URL", ""),

		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "prompter"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h"), 720*time.Hour),

		NotifyEmail: getEnv("PROMPTER_NOTIFY_EMAIL", ""),
		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),

		GoogleClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),

		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeMonthPriceID:   getEnv("STRIPE_MONTH_PRICING_ID", ""),
		StripeYearPriceID:    getEnv("STRIPE_YEAR_PRICING_ID", ""),
		StripePortalConfigID: getEnv("STRIPE_PORTAL_CONFIGURATION_ID", ""),
		PaymentSuccessURL:    getEnv("PAYMENT_SUCCESS_URL", ""),
		PaymentCancelURL:     getEnv("PAYMENT_CANCEL_URL", ""),
		PaymentReturnURL:     getEnv("PAYMENT_RETURN_URL", ""),

		AnalyticsMeasurementID: getEnv("GOOGLE_ANALYTICS_CLIENT_ID", ""),
		AnalyticsAPISecret:     getEnv("GOOGLE_ANALYTICS_API_KEY", ""),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AllowedOrigins is the CORS origin list. Outside production every origin is accepted.
func (c *Config) AllowedOrigins() string {
	if c.IsProduction() && c.AppBaseURL != "" {
		return "https://" + c.AppBaseURL
	}
	return "*"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
