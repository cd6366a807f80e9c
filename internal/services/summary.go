package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

// SummaryPrompt is prepended verbatim to every transcript.
const SummaryPrompt = `I have a YouTube video transcript that I need summarized with the key points highlighted. Please provide a concise and informative summary that captures the main ideas and important details from the transcript within 250 words. Make sure to include the following:

Title and Subject: What is the video about?
Introduction: Briefly describe the introduction of the video.
Main Points: List the key points discussed in the video in a clear and structured manner.
Important Details: Mention any significant details, facts, or examples that are emphasized.
Conclusion: Summarize how the video wraps up its content.
Make the summary engaging and easy to understand, suitable for viewers who want a quick overview of the video's content. 
The transcript is: `

type SummaryService struct {
	provider providers.Provider
	model    string
	logger   *logrus.Logger
}

func NewSummaryService(provider providers.Provider, model string, logger *logrus.Logger) *SummaryService {
	return &SummaryService{
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Model returns the model name used for summaries.
func (s *SummaryService) Model() string {
	return s.model
}

// Summarize sends the prompt followed by the transcript as a single user
// message and returns the model's answer. The transcript is not truncated.
func (s *SummaryService) Summarize(ctx context.Context, transcript string) (string, error) {
	start := time.Now()

	resp, err := s.provider.Complete(ctx, providers.CompletionRequest{
		Messages: []providers.Message{{
			Role:    providers.RoleUser,
			Content: SummaryPrompt + transcript,
		}},
		Model: s.model,
	})
	if err != nil {
		return "", providers.NewServiceError(s.provider.Name(), "summarize", err)
	}

	summary := resp.Content()
	if summary == "" {
		return "", providers.NewServiceError(s.provider.Name(), "summarize", providers.ErrEmptyResponse)
	}

	s.logger.WithFields(logrus.Fields{
		"provider":         s.provider.Name(),
		"model":            s.model,
		"transcript_chars": len(transcript),
		"summary_chars":    len(summary),
		"duration_ms":      time.Since(start).Milliseconds(),
	}).Info("summary generated")

	return summary, nil
}
