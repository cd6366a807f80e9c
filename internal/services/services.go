package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
	"github.com/summarizetube/summarizetube-backend/internal/providers"
	"github.com/summarizetube/summarizetube-backend/internal/providers/factory"
	"github.com/summarizetube/summarizetube-backend/internal/transcript"
	"github.com/summarizetube/summarizetube-backend/internal/wordcloud"
)

// Services holds all service instances
type Services struct {
	Config    *config.Config
	Providers *providers.Registry

	Health   *HealthMonitor
	Summary  *SummaryService
	Pipeline *PipelineService
	Sessions *SessionStore
	Chat     *ChatService

	Logger *logrus.Logger
}

// NewServices builds the configured provider, transcript client and word
// cloud renderer and wires every service on top of them.
func NewServices(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Services, error) {
	provider, err := factory.CreateProvider(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Model.Provider, err)
	}
	if err := provider.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("validate %s provider: %w", cfg.Model.Provider, err)
	}

	fetcher := transcript.NewYouTubeClient(
		cfg.Transcript.BaseURL,
		cfg.Transcript.Timeout,
		logger,
		transcript.WithLanguages(cfg.Transcript.Languages...),
	)

	opts, err := wordcloud.OptionsFromConfig(cfg.WordCloud)
	if err != nil {
		return nil, fmt.Errorf("word cloud options: %w", err)
	}
	renderer, err := wordcloud.NewRenderer(opts)
	if err != nil {
		return nil, fmt.Errorf("word cloud renderer: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"provider":   provider.Name(),
		"model":      cfg.Model.Name,
		"chat_model": cfg.Model.ChatName,
	}).Info("services initialized")

	return New(cfg, provider, fetcher, renderer, logger), nil
}

// New wires services from already constructed dependencies.
func New(cfg *config.Config, provider providers.Provider, fetcher transcript.Fetcher, visualizer Visualizer, logger *logrus.Logger) *Services {
	registry := providers.NewRegistry()
	registry.Register(cfg.Model.Provider, provider)
	health := NewHealthMonitor(registry)
	provider = health.Wrap(cfg.Model.Provider, provider)

	chatModel := conversation.Model{Name: cfg.Model.ChatName}
	if chatModel.Name == "" {
		chatModel.Name = cfg.Model.Name
	}
	if cfg.Model.Temperature > 0 {
		temp := cfg.Model.Temperature
		chatModel.Temperature = &temp
	}

	summary := NewSummaryService(provider, cfg.Model.Name, logger)
	sessions := NewSessionStore(cfg.Server.SessionTTL, logger)

	return &Services{
		Config:    cfg,
		Providers: registry,
		Health:    health,
		Summary:   summary,
		Pipeline:  NewPipelineService(fetcher, summary, visualizer, cfg.Model.Name, logger),
		Sessions:  sessions,
		Chat:      NewChatService(sessions, provider, chatModel, logger),
		Logger:    logger,
	}
}

// Close releases background resources.
func (s *Services) Close() {
	s.Sessions.Close()
}
