package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/models"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

// CreateSession creates a new chat session
func CreateSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := svc.Sessions.Create()
		return c.Status(fiber.StatusCreated).JSON(session.Snapshot())
	}
}

// GetSession returns a specific session
func GetSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := svc.Sessions.Get(c.Params("id"))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(session.Snapshot())
	}
}

// DeleteSession deletes a session
func DeleteSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Sessions.Delete(c.Params("id")); err != nil {
			return errorJSON(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SendMessage submits a chat message and waits for the whole reply
func SendMessage(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.MessageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		sessionID := c.Params("id")
		exchange, err := svc.Chat.Send(c.UserContext(), sessionID, req.Message, nil)
		skipped := errors.Is(err, conversation.ErrEmptyInput)
		if err != nil && !skipped {
			return errorJSON(c, err)
		}

		session, err := svc.Sessions.Get(sessionID)
		if err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(models.MessageResponse{
			Exchange: exchange,
			Session:  session.Snapshot(),
			Skipped:  skipped,
		})
	}
}
