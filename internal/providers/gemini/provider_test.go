package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
}

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewProvider(context.Background(), config.ModelConfig{
		Provider: "gemini",
		Name:     "gemini-2.5-flash",
		APIKey:   "test-key",
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	return p
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), config.ModelConfig{Provider: "gemini", Name: "gemini-2.5-flash"})
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)

		var body generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Contents, 1) {
			assert.Equal(t, "user", body.Contents[0].Role)
			assert.Equal(t, "prompt + transcript", body.Contents[0].Parts[0].Text)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"responseId":"r1","candidates":[{"content":{"role":"model","parts":[{"text":"Title: "},{"text":"Go"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":10,"candidatesTokenCount":2,"totalTokenCount":12}}`)
	})

	resp, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "prompt + transcript"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Title: Go", resp.Content())
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`},
		{"no candidates", http.StatusOK, `{"candidates":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := p.Complete(context.Background(), providers.CompletionRequest{
				Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.True(t, providers.IsServiceError(err))
		})
	}
}

func TestStreamComplete(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":streamGenerateContent")

		var body generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Contents, 3) {
			assert.Equal(t, []string{"user", "model", "user"}, []string{
				body.Contents[0].Role, body.Contents[1].Role, body.Contents[2].Role,
			})
		}
		if assert.NotNil(t, body.SystemInstruction) {
			assert.Equal(t, "video summary", body.SystemInstruction.Parts[0].Text)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\n\n", text)
		}
	})

	chunks, err := p.StreamComplete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: "video summary"},
			{Role: providers.RoleUser, Content: "first"},
			{Role: providers.RoleAssistant, Content: "answer"},
			{Role: providers.RoleUser, Content: "second"},
		},
	})
	require.NoError(t, err)

	var text strings.Builder
	var last providers.StreamChunk
	for chunk := range chunks {
		require.Empty(t, chunk.Error)
		text.WriteString(chunk.Delta)
		last = chunk
	}
	assert.Equal(t, "Hello", text.String())
	assert.Equal(t, "stop", last.FinishReason)
}

func TestStreamCompleteError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`)
	})

	chunks, err := p.StreamComplete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var errs []string
	for chunk := range chunks {
		if chunk.Error != "" {
			errs = append(errs, chunk.Error)
		}
	}
	assert.Len(t, errs, 1)
}
