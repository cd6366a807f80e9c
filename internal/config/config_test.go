package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Model: ModelConfig{
			Provider: "gemini",
			Name:     "gemini-2.5-flash",
			APIKey:   "test-key",
		},
		WordCloud: WordCloudConfig{Width: 1200, Height: 800},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		missing bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Model.APIKey = "" },
			wantErr: true,
			missing: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Model.Provider = "bard" },
			wantErr: true,
		},
		{
			name: "openai-compatible without key",
			mutate: func(c *Config) {
				c.Model.Provider = "openai-compatible"
				c.Model.BaseURL = "http://localhost:11434/v1"
				c.Model.APIKey = ""
			},
		},
		{
			name: "openai-compatible without base url",
			mutate: func(c *Config) {
				c.Model.Provider = "openai-compatible"
			},
			wantErr: true,
		},
		{
			name:    "empty canvas",
			mutate:  func(c *Config) { c.WordCloud.Width = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingCredential))
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "gemini-2.5-flash", cfg.Model.ChatName)
	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, []string{"en"}, cfg.Transcript.Languages)
	assert.Equal(t, "https://www.youtube.com", cfg.Transcript.BaseURL)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "from-env")
	t.Setenv("SUMMARIZETUBE_PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  session_ttl: "30m"
model:
  provider: "gemini"
  name: "gemini-pro"
wordcloud:
  seed: 7
logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, "gemini-pro", cfg.Model.Name)
	assert.Equal(t, "from-env", cfg.Model.APIKey)
	assert.Equal(t, int64(7), cfg.WordCloud.Seed)
	assert.Equal(t, 1200, cfg.WordCloud.Width)
	assert.Equal(t, "viridis", cfg.WordCloud.Colormap)
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())
}

func TestLoadFileMissingCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model": {"provider": "gemini"}}`), 0o644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestLoadFileInvalid(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		cfg   LoggingConfig
		level logrus.Level
		json  bool
	}{
		{"debug text", LoggingConfig{Level: "debug", Format: "text"}, logrus.DebugLevel, false},
		{"warn json", LoggingConfig{Level: "WARN", Format: "json"}, logrus.WarnLevel, true},
		{"invalid level", LoggingConfig{Level: "loud"}, logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.cfg)
			assert.Equal(t, tt.level, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}
