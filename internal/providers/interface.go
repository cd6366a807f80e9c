package providers

import (
	"context"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for all LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete performs a non-streaming completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// StreamComplete performs a streaming completion. The channel is closed
	// after a chunk with FinishReason or Error set.
	StreamComplete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error
}

// CompletionRequest represents a chat completion request
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a non-streaming response
type CompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Content returns the text of the first choice, or "" when there is none.
func (r *CompletionResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk represents a chunk in a streaming response
type StreamChunk struct {
	ID           string `json:"id,omitempty"`
	Model        string `json:"model,omitempty"`
	Delta        string `json:"delta,omitempty"`
	Role         string `json:"role,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Error        string `json:"error,omitempty"`
}
