package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/models"
	"github.com/summarizetube/summarizetube-backend/internal/transcript"
	"github.com/summarizetube/summarizetube-backend/internal/video"
)

// Summarizer turns transcript text into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Visualizer renders text as a PNG image.
type Visualizer interface {
	Render(text string) ([]byte, error)
}

// PipelineService runs link parsing, transcript fetching, summarizing and
// word-cloud rendering in order. A failure at any stage aborts the run and
// no later stage is invoked.
type PipelineService struct {
	fetcher    transcript.Fetcher
	summarizer Summarizer
	visualizer Visualizer
	model      string
	logger     *logrus.Logger
}

func NewPipelineService(fetcher transcript.Fetcher, summarizer Summarizer, visualizer Visualizer, model string, logger *logrus.Logger) *PipelineService {
	return &PipelineService{
		fetcher:    fetcher,
		summarizer: summarizer,
		visualizer: visualizer,
		model:      model,
		logger:     logger,
	}
}

// Summarize produces the summary and word cloud for link.
func (p *PipelineService) Summarize(ctx context.Context, link string) (*models.VideoSummary, error) {
	start := time.Now()

	ref, err := video.ParseReference(link)
	if err != nil {
		return nil, err
	}
	log := p.logger.WithField("video_id", ref.ID)

	tr, err := p.fetcher.Fetch(ctx, ref.ID)
	if err != nil {
		log.WithError(err).Warn("transcript fetch failed")
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	summary, err := p.summarizer.Summarize(ctx, tr.Text)
	if err != nil {
		log.WithError(err).Warn("summarize failed")
		return nil, fmt.Errorf("summarize: %w", err)
	}

	png, err := p.visualizer.Render(summary)
	if err != nil {
		log.WithError(err).Warn("word cloud failed")
		return nil, fmt.Errorf("render word cloud: %w", err)
	}

	log.WithFields(logrus.Fields{
		"transcript_chars": len(tr.Text),
		"png_bytes":        len(png),
		"duration_ms":      time.Since(start).Milliseconds(),
	}).Info("video summarized")

	return &models.VideoSummary{
		VideoID:         ref.ID,
		Link:            ref.Link,
		ThumbnailURL:    ref.ThumbnailURL(),
		Summary:         summary,
		WordCloudPNG:    png,
		TranscriptChars: len(tr.Text),
		ModelUsed:       p.model,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
