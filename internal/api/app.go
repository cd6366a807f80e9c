// Package api exposes the HTTP surface: the JSON API, the streaming chat
// socket and the browser page.
package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

// NewApp builds the Fiber application with middleware and routes.
func NewApp(svc *services.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SummarizeTube",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(corsConfig(svc.Config.Server.CORSOrigins)))

	SetupRoutes(app, svc)
	return app
}

// corsConfig allows credentials only for an explicit origin list; fiber
// refuses credentials together with a wildcard.
func corsConfig(origins string) cors.Config {
	origins = strings.TrimSpace(origins)
	wildcard := origins == "" || origins == "*"
	if wildcard {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: !wildcard,
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
