package models

import (
	"encoding/base64"
	"time"

	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	domain "github.com/summarizetube/summarizetube-backend/internal/models"
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInvalid    ErrorType = "invalid_request"
	ErrorTypeTranscript ErrorType = "transcript_unavailable"
	ErrorTypeService    ErrorType = "service_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeBusy       ErrorType = "busy"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string    `json:"error"`
	Type  ErrorType `json:"type"`
	Code  int       `json:"code"`
}

// ReferenceResponse for GET /videos/reference
type ReferenceResponse struct {
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type SummaryRequest struct {
	Link      string `json:"link" form:"link"`
	SessionID string `json:"session_id,omitempty" form:"session_id"`
}

// SummaryResponse carries the word cloud as base64 PNG.
type SummaryResponse struct {
	VideoID         string    `json:"video_id"`
	Link            string    `json:"link"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Summary         string    `json:"summary"`
	WordCloudPNG    string    `json:"word_cloud_png"`
	TranscriptChars int       `json:"transcript_chars"`
	ModelUsed       string    `json:"model_used"`
	CreatedAt       time.Time `json:"created_at"`
	Grounded        bool      `json:"grounded"`
}

// NewSummaryResponse converts a pipeline result for the wire.
func NewSummaryResponse(s *domain.VideoSummary) SummaryResponse {
	return SummaryResponse{
		VideoID:         s.VideoID,
		Link:            s.Link,
		ThumbnailURL:    s.ThumbnailURL,
		Summary:         s.Summary,
		WordCloudPNG:    base64.StdEncoding.EncodeToString(s.WordCloudPNG),
		TranscriptChars: s.TranscriptChars,
		ModelUsed:       s.ModelUsed,
		CreatedAt:       s.CreatedAt,
	}
}

type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse is returned after a blocking chat message. Skipped is set
// when the message was blank and nothing happened.
type MessageResponse struct {
	Exchange *conversation.Exchange `json:"exchange,omitempty"`
	Session  conversation.Snapshot  `json:"session"`
	Skipped  bool                   `json:"skipped,omitempty"`
}

// Stream frame types
const (
	FrameDelta = "delta"
	FrameDone  = "done"
	FrameError = "error"
)

// StreamFrame is one WebSocket message sent while a reply streams.
type StreamFrame struct {
	Type     string                 `json:"type"`
	Content  string                 `json:"content,omitempty"`
	Exchange *conversation.Exchange `json:"exchange,omitempty"`
	Session  *conversation.Snapshot `json:"session,omitempty"`
	Skipped  bool                   `json:"skipped,omitempty"`
	Error    *ErrorResponse         `json:"error,omitempty"`
}
