package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/summarizetube/summarizetube-backend/internal/api/models"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
	"github.com/summarizetube/summarizetube-backend/internal/services"
	"github.com/summarizetube/summarizetube-backend/internal/transcript"
	"github.com/summarizetube/summarizetube-backend/internal/video"
	"github.com/summarizetube/summarizetube-backend/internal/wordcloud"
)

// Classify maps a service error to an HTTP status and error type.
func Classify(err error) (int, models.ErrorType) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, video.ErrMalformedInput):
		return fiber.StatusBadRequest, models.ErrorTypeInvalid
	case errors.Is(err, transcript.ErrUnavailable):
		return fiber.StatusNotFound, models.ErrorTypeTranscript
	case errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound, models.ErrorTypeNotFound
	case errors.Is(err, conversation.ErrBusy):
		return fiber.StatusConflict, models.ErrorTypeBusy
	case errors.Is(err, wordcloud.ErrNoWords):
		return fiber.StatusUnprocessableEntity, models.ErrorTypeInvalid
	case providers.IsServiceError(err):
		return fiber.StatusBadGateway, models.ErrorTypeService
	case errors.As(err, &fe):
		return fe.Code, models.ErrorTypeInvalid
	default:
		// Transport failures talking to the transcript service end up here.
		return fiber.StatusBadGateway, models.ErrorTypeService
	}
}

// NewErrorResponse builds the JSON error body for err.
func NewErrorResponse(err error) models.ErrorResponse {
	code, errType := Classify(err)
	return models.ErrorResponse{Error: err.Error(), Type: errType, Code: code}
}

func errorJSON(c *fiber.Ctx, err error) error {
	resp := NewErrorResponse(err)
	return c.Status(resp.Code).JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: msg,
		Type:  models.ErrorTypeInvalid,
		Code:  fiber.StatusBadRequest,
	})
}
