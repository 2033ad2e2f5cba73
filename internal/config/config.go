package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Data   DataConfig
	Auth   AuthConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	Environment  string        `envconfig:"ENV" default:"development"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"300s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// LLMConfig holds chat provider configuration
type LLMConfig struct {
	Provider         string `envconfig:"LLM_PROVIDER" default:"anthropic"`
	Model            string `envconfig:"LLM_MODEL" default:"claude-3-5-sonnet-latest"`
	MaxTokens        int    `envconfig:"LLM_MAX_TOKENS" default:"4096"`
	HistoryBudget    int    `envconfig:"LLM_HISTORY_BUDGET" default:"100000"`
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OllamaHost       string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
}

// DataConfig holds the file-backed data layer configuration
type DataConfig struct {
	Dir string `envconfig:"DATA_DIR" default:"./data"`
}

// AuthConfig holds authentication configuration. An empty token disables
// authentication, which is the default for local single-user use.
type AuthConfig struct {
	APIToken string `envconfig:"API_TOKEN"`
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FINSIGHT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
