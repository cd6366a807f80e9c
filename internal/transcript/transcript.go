// Package transcript fetches caption transcripts for videos.
package transcript

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned when a video has no usable captions: it is
// private, unplayable, does not exist, or has no caption tracks.
var ErrUnavailable = errors.New("transcript unavailable")

// Fragment is one timed caption unit as returned by the transcript service.
type Fragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the concatenated caption text for a video.
type Transcript struct {
	VideoID   string     `json:"video_id"`
	Language  string     `json:"language,omitempty"`
	Fragments []Fragment `json:"fragments"`
	Text      string     `json:"text"`
}

// Fetcher retrieves the transcript for a video identifier. Implementations
// call the external service once and return its error unchanged in meaning.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (*Transcript, error)
}

// Join concatenates fragment texts in order, each preceded by one space.
func Join(fragments []Fragment) string {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteByte(' ')
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// New builds a Transcript from fragments in service order.
func New(videoID, language string, fragments []Fragment) *Transcript {
	return &Transcript{
		VideoID:   videoID,
		Language:  language,
		Fragments: fragments,
		Text:      Join(fragments),
	}
}
