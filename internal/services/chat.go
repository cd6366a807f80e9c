package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
)

// ChatService sends follow-up messages through a session's conversation
// using the configured provider and chat model.
type ChatService struct {
	sessions *SessionStore
	provider providers.Provider
	model    conversation.Model
	logger   *logrus.Logger
}

// NewChatService creates a new chat service
func NewChatService(sessions *SessionStore, provider providers.Provider, model conversation.Model, logger *logrus.Logger) *ChatService {
	return &ChatService{
		sessions: sessions,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Send submits text to the session and forwards each streamed delta to
// onDelta. Blank text returns conversation.ErrEmptyInput without touching
// the session.
func (s *ChatService) Send(ctx context.Context, sessionID, text string, onDelta func(string) error) (*conversation.Exchange, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"provider":   s.provider.Name(),
	})

	exchange, err := session.Submit(ctx, s.provider, s.model, text, onDelta)
	if err != nil {
		if !errors.Is(err, conversation.ErrEmptyInput) {
			log.WithError(err).Warn("chat message failed")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"input_slot":  exchange.InputSlot,
		"reply_chars": len(exchange.Bot.Text),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("chat reply streamed")

	return exchange, nil
}

// Ground makes summary the context for the session's follow-up chat.
func (s *ChatService) Ground(sessionID, summary string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	session.Ground(summary)
	return nil
}
