package models

import "time"

// VideoSummary is the result of summarizing one video.
type VideoSummary struct {
	VideoID         string    `json:"video_id"`
	Link            string    `json:"link"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Summary         string    `json:"summary"`
	WordCloudPNG    []byte    `json:"word_cloud_png,omitempty"`
	TranscriptChars int       `json:"transcript_chars"`
	ModelUsed       string    `json:"model_used"`
	CreatedAt       time.Time `json:"created_at"`
}
