package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/models"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

// RequireStreamUpgrade rejects plain HTTP requests and unknown sessions
// before the WebSocket handshake.
func RequireStreamUpgrade(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := svc.Sessions.Get(c.Params("id")); err != nil {
			return errorJSON(c, err)
		}
		return c.Next()
	}
}

// StreamMessages handles WebSocket /api/v1/sessions/:id/stream. Every
// {"message": ...} read from the client is answered with delta frames
// followed by a done or error frame. The connection stays open for further
// messages until the client closes it.
func StreamMessages(svc *services.Services) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sessionID := c.Params("id")
		log := svc.Logger.WithField("session_id", sessionID)

		for {
			var req models.MessageRequest
			if err := c.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.WithError(err).Debug("stream read ended")
				}
				return
			}

			exchange, err := svc.Chat.Send(context.Background(), sessionID, req.Message, func(delta string) error {
				return c.WriteJSON(models.StreamFrame{Type: models.FrameDelta, Content: delta})
			})

			skipped := errors.Is(err, conversation.ErrEmptyInput)
			if err != nil && !skipped {
				resp := NewErrorResponse(err)
				if writeErr := c.WriteJSON(models.StreamFrame{Type: models.FrameError, Error: &resp}); writeErr != nil {
					return
				}
				continue
			}

			session, err := svc.Sessions.Get(sessionID)
			if err != nil {
				resp := NewErrorResponse(err)
				_ = c.WriteJSON(models.StreamFrame{Type: models.FrameError, Error: &resp})
				return
			}
			snapshot := session.Snapshot()
			if err := c.WriteJSON(models.StreamFrame{
				Type:     models.FrameDone,
				Exchange: exchange,
				Session:  &snapshot,
				Skipped:  skipped,
			}); err != nil {
				return
			}
		}
	}
}
