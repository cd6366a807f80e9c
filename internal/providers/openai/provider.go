package openai

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

// Provider implements the OpenAI provider. It also serves OpenAI-compatible
// servers (Ollama, vLLM) when a base URL is configured.
type Provider struct {
	config config.ModelConfig
	client *openai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.ModelConfig) (*Provider, error) {
	compatible := cfg.Provider == "openai-compatible"
	if cfg.APIKey == "" && !compatible {
		return nil, errors.New("OpenAI API key is required")
	}
	if compatible && cfg.BaseURL == "" {
		return nil, errors.New("base URL is required for OpenAI-compatible provider")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "dummy-key" // local servers ignore it
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		base := strings.TrimSuffix(cfg.BaseURL, "/")
		if compatible && !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		clientConfig.BaseURL = base
	}

	return &Provider{
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return p.config.Provider
}

// Complete performs a non-streaming completion
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	openAIReq := p.convertRequest(req)
	openAIReq.Stream = false

	resp, err := p.client.CreateChatCompletion(ctx, openAIReq)
	if err != nil {
		return nil, providers.NewServiceError(p.Name(), "complete", err)
	}

	return p.convertResponse(&resp), nil
}

// StreamComplete performs a streaming completion
func (p *Provider) StreamComplete(ctx context.Context, req providers.CompletionRequest) (<-chan providers.StreamChunk, error) {
	openAIReq := p.convertRequest(req)
	openAIReq.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, openAIReq)
	if err != nil {
		return nil, providers.NewServiceError(p.Name(), "stream", err)
	}

	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				send(ctx, chunks, providers.StreamChunk{FinishReason: "stop"})
				return
			}
			if err != nil {
				send(ctx, chunks, providers.StreamChunk{Error: err.Error()})
				return
			}

			if len(response.Choices) == 0 {
				continue
			}
			choice := response.Choices[0]
			chunk := providers.StreamChunk{
				ID:    response.ID,
				Model: response.Model,
				Delta: choice.Delta.Content,
				Role:  choice.Delta.Role,
			}
			// The finish reason arrives on the last content chunk; the
			// terminal "stop" chunk is sent on EOF.
			if chunk.Delta == "" && chunk.Role == "" {
				continue
			}
			if !send(ctx, chunks, chunk) {
				return
			}
		}
	}()

	return chunks, nil
}

func send(ctx context.Context, chunks chan<- providers.StreamChunk, chunk providers.StreamChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if p.config.APIKey == "" && p.config.Provider != "openai-compatible" {
		return errors.New("API key is required")
	}
	if p.config.Name == "" {
		return errors.New("model name is required")
	}
	return nil
}

// convertRequest converts internal request to OpenAI request
func (p *Provider) convertRequest(req providers.CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	model := req.Model
	if model == "" {
		model = p.config.Name
	}

	openAIReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   req.Stream,
	}

	if req.Temperature != nil {
		openAIReq.Temperature = *req.Temperature
	}

	if req.MaxTokens != nil {
		openAIReq.MaxTokens = *req.MaxTokens
	}

	return openAIReq
}

// convertResponse converts OpenAI response to internal response
func (p *Provider) convertResponse(resp *openai.ChatCompletionResponse) *providers.CompletionResponse {
	choices := make([]providers.Choice, len(resp.Choices))
	for i, choice := range resp.Choices {
		choices[i] = providers.Choice{
			Index: choice.Index,
			Message: providers.Message{
				Role:    choice.Message.Role,
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		}
	}

	return &providers.CompletionResponse{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: choices,
		Usage: providers.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
}
