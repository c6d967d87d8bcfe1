package middleware

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, " + TokenHeader,
		AllowMethods:     "GET, HEAD, POST, OPTIONS",
		AllowCredentials: false,
	})
}
