// Package config manages application configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/findosh/stockpulse/internal/logging"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. STOCKPULSE_AGENT_BASE_URL
const EnvPrefix = "STOCKPULSE"

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"` // "development" or "production"

	// Database
	DatabaseURL string `mapstructure:"database_url"`

	Log       LogConfig       `mapstructure:"log"`
	Agent     AgentConfig     `mapstructure:"agent"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Import    ImportConfig    `mapstructure:"import"`
	History   HistoryConfig   `mapstructure:"history"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// AgentConfig holds the hosted agent pipeline settings
type AgentConfig struct {
	Provider      string        `mapstructure:"provider"` // http, openai, gemini
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	UserID        string        `mapstructure:"user_id"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CoordinatorID string        `mapstructure:"coordinator_id"`
	DeliveryID    string        `mapstructure:"delivery_id"`
	ExtractionID  string        `mapstructure:"extraction_id"`
	MarketDataID  string        `mapstructure:"market_data_id"`
	SentimentID   string        `mapstructure:"sentiment_id"`
	TechnicalID   string        `mapstructure:"technical_id"`
	ActivityLimit int           `mapstructure:"activity_limit"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SchedulerConfig holds the external scheduler settings.
// An empty BaseURL selects the in-process scheduler.
type SchedulerConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	InitialScheduleID string        `mapstructure:"initial_schedule_id"`
	Retries           int           `mapstructure:"retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	StartupDelay      time.Duration `mapstructure:"startup_delay"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds operator login settings.
// Authentication is disabled when PasswordHash is empty.
type AuthConfig struct {
	SecretKey       string        `mapstructure:"secret_key"` // For JWT signing
	PasswordHash    string        `mapstructure:"password_hash"`
	SessionDuration time.Duration `mapstructure:"session_duration"`
}

type ImportConfig struct {
	MaxPromptChars int   `mapstructure:"max_prompt_chars"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// DefaultConfigDir returns the per-user configuration directory
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "stockpulse")
	}
	return filepath.Join(home, ".config", "stockpulse")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("database_url", "stockpulse.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", false)
	v.SetDefault("log.path", filepath.Join(DefaultConfigDir(), "logs", "stockpulse.log"))
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)

	def := agent.DefaultConfig()
	v.SetDefault("agent.provider", string(def.Provider))
	v.SetDefault("agent.base_url", def.BaseURL)
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.user_id", "")
	v.SetDefault("agent.timeout", def.Timeout)
	v.SetDefault("agent.coordinator_id", def.IDs.Coordinator)
	v.SetDefault("agent.delivery_id", def.IDs.Delivery)
	v.SetDefault("agent.extraction_id", def.IDs.Extraction)
	v.SetDefault("agent.market_data_id", def.IDs.MarketData)
	v.SetDefault("agent.sentiment_id", def.IDs.Sentiment)
	v.SetDefault("agent.technical_id", def.IDs.Technical)
	v.SetDefault("agent.activity_limit", 200)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", def.OpenAIModel)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", def.GeminiModel)

	v.SetDefault("scheduler.base_url", "")
	v.SetDefault("scheduler.api_key", "")
	v.SetDefault("scheduler.initial_schedule_id", "69a023e325d4d77f732e4fa8")
	v.SetDefault("scheduler.retries", 2)
	v.SetDefault("scheduler.retry_delay", 1500*time.Millisecond)
	v.SetDefault("scheduler.startup_delay", 1200*time.Millisecond)
	v.SetDefault("scheduler.timeout", 30*time.Second)

	v.SetDefault("auth.secret_key", "dev-secret-key-change-in-production")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.session_duration", 24*time.Hour)

	v.SetDefault("import.max_prompt_chars", 15000)
	v.SetDefault("import.max_upload_bytes", int64(5<<20))
	v.SetDefault("history.limit", 50)
}

// Load reads stockpulse.toml (from path, or from . and the user config
// directory when path is empty) and applies STOCKPULSE_* overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("stockpulse")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch agent.Provider(c.Agent.Provider) {
	case agent.ProviderHTTP, agent.ProviderOpenAI, agent.ProviderGemini:
	default:
		return fmt.Errorf("agent.provider must be http, openai or gemini, got %q", c.Agent.Provider)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.Scheduler.Retries < 0 {
		return errors.New("scheduler.retries must not be negative")
	}
	if c.Import.MaxPromptChars <= 0 {
		return errors.New("import.max_prompt_chars must be positive")
	}
	if c.Import.MaxUploadBytes <= 0 {
		return errors.New("import.max_upload_bytes must be positive")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	if c.IsProduction() && c.Auth.PasswordHash != "" && c.Auth.SecretKey == "dev-secret-key-change-in-production" {
		return errors.New("auth.secret_key must be changed in production")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AgentBackend converts the agent settings for agent.New
func (c *Config) AgentBackend() *agent.Config {
	return &agent.Config{
		Provider:      agent.Provider(c.Agent.Provider),
		BaseURL:       c.Agent.BaseURL,
		APIKey:        c.Agent.APIKey,
		UserID:        c.Agent.UserID,
		Timeout:       c.Agent.Timeout,
		OpenAIKey:     c.OpenAI.APIKey,
		OpenAIBaseURL: c.OpenAI.BaseURL,
		OpenAIModel:   c.OpenAI.Model,
		GeminiKey:     c.Gemini.APIKey,
		GeminiModel:   c.Gemini.Model,
		IDs: agent.IDs{
			Coordinator: c.Agent.CoordinatorID,
			Delivery:    c.Agent.DeliveryID,
			Extraction:  c.Agent.ExtractionID,
			MarketData:  c.Agent.MarketDataID,
			Sentiment:   c.Agent.SentimentID,
			Technical:   c.Agent.TechnicalID,
		},
	}
}

// Logging converts the log settings for logging.New
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		Console:    c.Log.Console,
		File:       c.Log.File,
		FilePath:   c.Log.Path,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}
