// Package gemini implements providers.Provider on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
	"google.golang.org/genai"
)

const name = "gemini"

// Provider talks to the Gemini API. It holds no conversation state; every
// request carries its full message list.
type Provider struct {
	config config.ModelConfig
	client *genai.Client
}

// NewProvider creates a Gemini provider from the model configuration.
func NewProvider(ctx context.Context, cfg config.ModelConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, providers.NewServiceError(name, "init", err)
	}

	return &Provider{config: cfg, client: client}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return name
}

// Complete performs a non-streaming completion
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	contents, genConfig := p.convertRequest(req)

	result, err := p.client.Models.GenerateContent(ctx, p.model(req), contents, genConfig)
	if err != nil {
		return nil, providers.NewServiceError(name, "complete", err)
	}

	text := responseText(result)
	if text == "" {
		return nil, providers.NewServiceError(name, "complete", providers.ErrEmptyResponse)
	}

	resp := &providers.CompletionResponse{
		ID:    result.ResponseID,
		Model: p.model(req),
		Choices: []providers.Choice{{
			Message:      providers.Message{Role: providers.RoleAssistant, Content: text},
			FinishReason: finishReason(result),
		}},
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

// StreamComplete performs a streaming completion
func (p *Provider) StreamComplete(ctx context.Context, req providers.CompletionRequest) (<-chan providers.StreamChunk, error) {
	contents, genConfig := p.convertRequest(req)
	model := p.model(req)
	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)

		for result, err := range p.client.Models.GenerateContentStream(ctx, model, contents, genConfig) {
			if err != nil {
				send(ctx, chunks, providers.StreamChunk{Error: err.Error()})
				return
			}
			text := responseText(result)
			if text == "" {
				continue
			}
			if !send(ctx, chunks, providers.StreamChunk{
				ID:    result.ResponseID,
				Model: model,
				Delta: text,
				Role:  providers.RoleAssistant,
			}) {
				return
			}
		}
		send(ctx, chunks, providers.StreamChunk{FinishReason: "stop"})
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
	if p.config.APIKey == "" {
		return errors.New("API key is required")
	}
	if p.config.Name == "" {
		return errors.New("model name is required")
	}
	return nil
}

func (p *Provider) model(req providers.CompletionRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return p.config.Name
}

// convertRequest maps chat messages onto Gemini contents. System messages
// become the system instruction; assistant turns use the "model" role.
func (p *Provider) convertRequest(req providers.CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	genConfig := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		genConfig.Temperature = req.Temperature
	}
	if req.MaxTokens != nil {
		genConfig.MaxOutputTokens = int32(*req.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case providers.RoleSystem:
			system = append(system, msg.Content)
		case providers.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(system) > 0 {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	return contents, genConfig
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func finishReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) == 0 {
		return ""
	}
	return strings.ToLower(string(result.Candidates[0].FinishReason))
}
