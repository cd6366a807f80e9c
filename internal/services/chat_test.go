package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

func newTestServices(provider *fakeProvider) *Services {
	return New(testConfig(), provider, &fakeFetcher{}, &fakeVisualizer{}, testLogger())
}

func TestChatSend(t *testing.T) {
	provider := &fakeProvider{chunks: []string{"Go is ", "great."}}
	svc := newTestServices(provider)
	defer svc.Close()

	session := svc.Sessions.Create()

	var streamed []string
	ex, err := svc.Chat.Send(context.Background(), session.ID(), "What is Go?", func(d string) error {
		streamed = append(streamed, d)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go is ", "great."}, streamed)
	assert.Equal(t, "Go is great.", ex.Bot.Text)
	assert.Equal(t, 1, session.InputSlot())

	req := provider.lastRequest()
	assert.Equal(t, "chat-model", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, float32(0.5), *req.Temperature)
}

func TestChatSendUnknownSession(t *testing.T) {
	svc := newTestServices(&fakeProvider{})
	defer svc.Close()

	_, err := svc.Chat.Send(context.Background(), "missing", "hi", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Chat.Ground("missing", "summary"), ErrSessionNotFound)
}

func TestChatSendEmpty(t *testing.T) {
	provider := &fakeProvider{chunks: []string{"x"}}
	svc := newTestServices(provider)
	defer svc.Close()

	session := svc.Sessions.Create()
	_, err := svc.Chat.Send(context.Background(), session.ID(), "  ", nil)
	assert.ErrorIs(t, err, conversation.ErrEmptyInput)
	assert.Empty(t, session.History())
	assert.Empty(t, provider.requests)
}

func TestChatGround(t *testing.T) {
	provider := &fakeProvider{chunks: []string{"ok"}}
	svc := newTestServices(provider)
	defer svc.Close()

	session := svc.Sessions.Create()
	require.NoError(t, svc.Chat.Ground(session.ID(), "A summary."))

	_, err := svc.Chat.Send(context.Background(), session.ID(), "tell me more", nil)
	require.NoError(t, err)

	msgs := provider.lastRequest().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, providers.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "A summary.")
}

func TestNewRegistersProvider(t *testing.T) {
	svc := newTestServices(&fakeProvider{})
	defer svc.Close()

	assert.Equal(t, []string{"fake"}, svc.Providers.List())
	assert.NotNil(t, svc.Pipeline)
	assert.Equal(t, "summary-model", svc.Summary.Model())
}
