package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
	"github.com/summarizetube/summarizetube-backend/internal/transcript"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{SessionTTL: time.Hour},
		Model: config.ModelConfig{
			Provider:    "fake",
			Name:        "summary-model",
			ChatName:    "chat-model",
			Temperature: 0.5,
		},
	}
}

type fakeProvider struct {
	mu          sync.Mutex
	completion  string
	completeErr error
	chunks      []string
	requests    []providers.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &providers.CompletionResponse{
		Choices: []providers.Choice{{Message: providers.Message{Role: providers.RoleAssistant, Content: f.completion}}},
	}, nil
}

func (f *fakeProvider) StreamComplete(ctx context.Context, req providers.CompletionRequest) (<-chan providers.StreamChunk, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	chunks := f.chunks
	f.mu.Unlock()

	out := make(chan providers.StreamChunk)
	go func() {
		defer close(out)
		for _, c := range chunks {
			select {
			case out <- providers.StreamChunk{Delta: c}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- providers.StreamChunk{FinishReason: "stop"}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func (f *fakeProvider) ValidateConfig() error { return nil }

func (f *fakeProvider) lastRequest() providers.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeFetcher struct {
	fragments []transcript.Fragment
	err       error
	calls     int
	videoIDs  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, videoID string) (*transcript.Transcript, error) {
	f.calls++
	f.videoIDs = append(f.videoIDs, videoID)
	if f.err != nil {
		return nil, f.err
	}
	return transcript.New(videoID, "en", f.fragments), nil
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
	inputs  []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type fakeVisualizer struct {
	png    []byte
	err    error
	calls  int
	inputs []string
}

func (f *fakeVisualizer) Render(text string) ([]byte, error) {
	f.calls++
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.png, nil
}

var errUpstream = errors.New("upstream down")
