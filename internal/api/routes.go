package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/handlers"
	"github.com/summarizetube/summarizetube-backend/internal/api/middleware"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

// SetupRoutes configures all API and page routes
func SetupRoutes(app *fiber.App, svc *services.Services) {
	api := app.Group("/api/v1")

	// Videos and summaries
	api.Get("/videos/reference", handlers.GetReference(svc))
	api.Post("/summaries", handlers.CreateSummary(svc))

	// Session management
	api.Post("/sessions", handlers.CreateSession(svc))
	api.Get("/sessions/:id", handlers.GetSession(svc))
	api.Delete("/sessions/:id", handlers.DeleteSession(svc))
	api.Post("/sessions/:id/messages", handlers.SendMessage(svc))

	// Streaming chat
	api.Get("/sessions/:id/stream", handlers.RequireStreamUpgrade(svc), websocket.New(handlers.StreamMessages(svc)))

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		for _, h := range svc.Health.GetAllHealth() {
			if !h.Healthy {
				status = "degraded"
			}
		}
		return c.JSON(fiber.Map{
			"status":    status,
			"service":   "summarizetube",
			"providers": svc.Health.GetAllHealth(),
			"model":     svc.Summary.Model(),
			"sessions":  svc.Sessions.Len(),
		})
	})

	// Browser UI
	ui := middleware.UISession(svc.Sessions, svc.Config.Server.SessionTTL)
	app.Get("/", ui, handlers.Index(svc))
	app.Post("/summarize", ui, handlers.SummarizeForm(svc))
	app.Post("/chat", ui, handlers.ChatForm(svc))
}
