package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when the active model provider has no API key.
var ErrMissingCredential = errors.New("missing model API credential")

type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server"`
	Model      ModelConfig      `mapstructure:"model" json:"model"`
	Transcript TranscriptConfig `mapstructure:"transcript" json:"transcript"`
	WordCloud  WordCloudConfig  `mapstructure:"wordcloud" json:"wordcloud"`
	Logging    LoggingConfig    `mapstructure:"logging" json:"logging"`
}

type ServerConfig struct {
	Host        string        `mapstructure:"host" json:"host"`
	Port        int           `mapstructure:"port" json:"port"`
	CORSOrigins string        `mapstructure:"cors_origins" json:"cors_origins"`
	SessionTTL  time.Duration `mapstructure:"session_ttl" json:"session_ttl"`
}

// ModelConfig selects the language model used for both summaries and chat.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider" json:"provider"` // gemini, openai, openai-compatible
	Name        string  `mapstructure:"name" json:"name"`
	ChatName    string  `mapstructure:"chat_name" json:"chat_name,omitempty"`
	APIKey      string  `mapstructure:"api_key" json:"api_key,omitempty"`
	BaseURL     string  `mapstructure:"base_url" json:"base_url,omitempty"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
}

type TranscriptConfig struct {
	BaseURL   string        `mapstructure:"base_url" json:"base_url"`
	Languages []string      `mapstructure:"languages" json:"languages"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout"`
}

type WordCloudConfig struct {
	Width         int     `mapstructure:"width" json:"width"`
	Height        int     `mapstructure:"height" json:"height"`
	Background    string  `mapstructure:"background" json:"background"`
	Colormap      string  `mapstructure:"colormap" json:"colormap"`
	Seed          int64   `mapstructure:"seed" json:"seed"`
	MaxWords      int     `mapstructure:"max_words" json:"max_words"`
	MinFontSize   float64 `mapstructure:"min_font_size" json:"min_font_size"`
	MaxFontSize   float64 `mapstructure:"max_font_size" json:"max_font_size"`
	MaskPath      string  `mapstructure:"mask_path" json:"mask_path,omitempty"`
	StopwordsPath string  `mapstructure:"stopwords_path" json:"stopwords_path,omitempty"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"` // text, json
}

// Load reads config.{json,yaml} from the usual locations, applies defaults
// and environment overrides, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".summarizetube"))
	}

	return load(v)
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	loadEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.cors_origins", "http://localhost:8501,http://localhost:5173")
	v.SetDefault("server.session_ttl", "2h")

	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.name", "gemini-2.5-flash")
	v.SetDefault("model.temperature", 0.7)

	v.SetDefault("transcript.base_url", "https://www.youtube.com")
	v.SetDefault("transcript.languages", []string{"en"})
	v.SetDefault("transcript.timeout", "30s")

	v.SetDefault("wordcloud.width", 1200)
	v.SetDefault("wordcloud.height", 800)
	v.SetDefault("wordcloud.background", "white")
	v.SetDefault("wordcloud.colormap", "viridis")
	v.SetDefault("wordcloud.seed", 42)
	v.SetDefault("wordcloud.max_words", 200)
	v.SetDefault("wordcloud.min_font_size", 10)
	v.SetDefault("wordcloud.max_font_size", 160)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("SUMMARIZETUBE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("SUMMARIZETUBE_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("SUMMARIZETUBE_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}

	if provider := os.Getenv("SUMMARIZETUBE_PROVIDER"); provider != "" {
		cfg.Model.Provider = provider
	}
	if model := os.Getenv("SUMMARIZETUBE_MODEL"); model != "" {
		cfg.Model.Name = model
	}
	if level := os.Getenv("SUMMARIZETUBE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	// The credential is only ever read from the environment when the
	// config file leaves it empty.
	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv(credentialEnv(cfg.Model.Provider))
	}
}

func credentialEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai", "openai-compatible", "ollama":
		return "OPENAI_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// Validate fills in defaults for optional fields and checks required ones.
func (c *Config) Validate() error {
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	switch c.Model.Provider {
	case "gemini", "openai":
	case "openai-compatible", "ollama":
		if c.Model.BaseURL == "" {
			return fmt.Errorf("model.base_url is required for provider %q", c.Model.Provider)
		}
	default:
		return fmt.Errorf("unknown model provider: %q", c.Model.Provider)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	// Local OpenAI-compatible servers usually run without a key.
	if c.Model.APIKey == "" && c.Model.Provider != "openai-compatible" && c.Model.Provider != "ollama" {
		return fmt.Errorf("%w: set %s", ErrMissingCredential, credentialEnv(c.Model.Provider))
	}
	if c.Model.ChatName == "" {
		c.Model.ChatName = c.Model.Name
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8501
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = 2 * time.Hour
	}
	if c.Transcript.BaseURL == "" {
		c.Transcript.BaseURL = "https://www.youtube.com"
	}
	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{"en"}
	}
	if c.Transcript.Timeout <= 0 {
		c.Transcript.Timeout = 30 * time.Second
	}
	if c.WordCloud.Width <= 0 || c.WordCloud.Height <= 0 {
		return fmt.Errorf("wordcloud canvas must be positive, got %dx%d", c.WordCloud.Width, c.WordCloud.Height)
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
