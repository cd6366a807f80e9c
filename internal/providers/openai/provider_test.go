package openai

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

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := NewProvider(config.ModelConfig{
		Provider: "openai",
		Name:     "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  baseURL,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ModelConfig
		wantErr bool
	}{
		{"openai with key", config.ModelConfig{Provider: "openai", Name: "gpt-4o", APIKey: "k"}, false},
		{"openai without key", config.ModelConfig{Provider: "openai", Name: "gpt-4o"}, true},
		{"compatible without key", config.ModelConfig{Provider: "openai-compatible", Name: "llama3", BaseURL: "http://localhost:11434"}, false},
		{"compatible without base url", config.ModelConfig{Provider: "openai-compatible", Name: "llama3"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Provider, p.Name())
			assert.NoError(t, p.ValidateConfig())
		})
	}
}

func TestComplete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		if assert.Len(t, body.Messages, 1) {
			assert.Equal(t, "summarize: hello", body.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"A short summary."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`)
	})

	p := testProvider(t, srv.URL)
	resp, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "summarize: hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", resp.Content())
	assert.Equal(t, 8, resp.Usage.TotalTokens)
}

func TestCompleteServiceError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	})

	p := testProvider(t, srv.URL)
	_, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, providers.IsServiceError(err))
}

func TestStreamComplete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Hel", "lo", "!"} {
			fmt.Fprintf(w, "data: {\"id\":\"s1\",\"object\":\"chat.completion.chunk\",\"model\":\"gpt-4o-mini\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	p := testProvider(t, srv.URL)
	chunks, err := p.StreamComplete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	var text strings.Builder
	var last providers.StreamChunk
	for chunk := range chunks {
		require.Empty(t, chunk.Error)
		text.WriteString(chunk.Delta)
		last = chunk
	}
	assert.Equal(t, "Hello!", text.String())
	assert.Equal(t, "stop", last.FinishReason)
}

func TestStreamCompleteOpenError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})

	p := testProvider(t, srv.URL)
	_, err := p.StreamComplete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.True(t, providers.IsServiceError(err))
}
