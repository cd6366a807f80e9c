package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/models"
	"github.com/summarizetube/summarizetube-backend/internal/services"
	"github.com/summarizetube/summarizetube-backend/internal/video"
)

// GetReference parses ?link= and returns the video ID and thumbnail URL
func GetReference(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := video.ParseReference(c.Query("link"))
		if err != nil {
			return errorJSON(c, err)
		}

		return c.JSON(models.ReferenceResponse{
			VideoID:      ref.ID,
			ThumbnailURL: ref.ThumbnailURL(),
		})
	}
}

// CreateSummary runs the summarize pipeline for a link. When a session ID
// is supplied the session's follow-up chat is grounded on the new summary.
func CreateSummary(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SummaryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if strings.TrimSpace(req.Link) == "" {
			return badRequest(c, "link is required")
		}

		// Resolve the session first so a bad ID does not cost a model call.
		if req.SessionID != "" {
			if _, err := svc.Sessions.Get(req.SessionID); err != nil {
				return errorJSON(c, err)
			}
		}

		summary, err := svc.Pipeline.Summarize(c.UserContext(), req.Link)
		if err != nil {
			return errorJSON(c, err)
		}

		resp := models.NewSummaryResponse(summary)
		if req.SessionID != "" {
			if err := svc.Chat.Ground(req.SessionID, summary.Summary); err != nil {
				return errorJSON(c, err)
			}
			resp.Grounded = true
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}
