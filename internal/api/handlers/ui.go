package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/middleware"
	"github.com/summarizetube/summarizetube-backend/internal/api/views"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

func renderPage(c *fiber.Ctx, status int, page views.Page) error {
	if session := middleware.GetSession(c); session != nil {
		page.History = session.History()
		page.InputSlot = session.InputSlot()
	}

	body, err := views.Render(page)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}

// Index renders the page with the session's chat history
func Index(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderPage(c, fiber.StatusOK, views.Page{})
	}
}

// SummarizeForm runs the pipeline for the submitted link and renders the
// result. On failure the page shows the error and nothing else changes.
func SummarizeForm(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		link := c.FormValue("link")

		summary, err := svc.Pipeline.Summarize(c.UserContext(), link)
		if err != nil {
			status, _ := Classify(err)
			return renderPage(c, status, views.Page{Link: link, Error: err.Error()})
		}

		if session := middleware.GetSession(c); session != nil {
			session.Ground(summary.Summary)
		}
		return renderPage(c, fiber.StatusOK, views.Page{Link: link, Summary: summary})
	}
}

// ChatForm submits the message typed into the current input slot and
// redirects back to the page. A stale slot or blank message is a no-op.
func ChatForm(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := middleware.GetSession(c)
		if session == nil {
			return fiber.ErrInternalServerError
		}

		slot, err := strconv.Atoi(c.FormValue("input_slot"))
		if err != nil {
			slot = session.InputSlot()
		}
		if slot != session.InputSlot() {
			// The form was rendered before the last exchange finished.
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		text := c.FormValue("input_" + strconv.Itoa(slot))

		_, err = svc.Chat.Send(c.UserContext(), session.ID(), text, nil)
		if err != nil && !errors.Is(err, conversation.ErrEmptyInput) {
			status, _ := Classify(err)
			return renderPage(c, status, views.Page{Error: err.Error()})
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
