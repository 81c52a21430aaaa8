// Package config loads runtime settings from an optional YAML file, a .env
// file and the environment. Later sources win: file, then environment, then
// whatever the CLI sets on the returned struct.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/aichef/internal/llm"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// Environment variables read by Load.
const (
	EnvAPIKey          = "AICHEF_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvProvider        = "AICHEF_PROVIDER"
	EnvModel           = "AICHEF_MODEL"
	EnvBaseURL         = "AICHEF_BASE_URL"
	EnvStorageEndpoint = "AICHEF_STORAGE_ENDPOINT"
	EnvUserID          = "AICHEF_USER_ID"
	EnvLogLevel        = "AICHEF_LOG_LEVEL"
	EnvServerAddress   = "AICHEF_SERVER_ADDRESS"
)

// Defaults.
const (
	DefaultUserID         = "local"
	DefaultHistoryLimit   = 10
	DefaultRequestTimeout = 2 * time.Minute
	DefaultServerAddress  = ":8080"
	DefaultRateLimit      = 2.0
	DefaultRateBurst      = 5
)

// Mode says whether generation talks to a real model.
type Mode int

const (
	// ModeOnline calls the configured provider.
	ModeOnline Mode = iota
	// ModeOffline uses the built-in mock completer.
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}
	return "online"
}

// Config is everything the application needs at startup.
type Config struct {
	// APIKey authorises outbound model calls. Empty means offline mode.
	APIKey          string        `yaml:"api_key"`
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"`
	SearchGrounding bool          `yaml:"search_grounding"`
	StorageEndpoint string        `yaml:"storage_endpoint"`
	UserID          string        `yaml:"user_id"`
	HistoryLimit    int           `yaml:"history_limit"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	Server          ServerConfig  `yaml:"server"`
	Log             LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	// RateLimit is requests per second per client; RateBurst the bucket size.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // off, info, debug
	File  string `yaml:"file"`  // empty or "stderr" logs to the console
}

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load builds a config. A .env file in the working directory is loaded first
// if present. path may be empty, in which case only defaults and the
// environment are used. ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	// GEMINI_API_KEY is the fallback so existing Gemini setups just work.
	setString(&c.APIKey, EnvGeminiAPIKey)
	setString(&c.APIKey, EnvAPIKey)
	setString(&c.Provider, EnvProvider)
	setString(&c.Model, EnvModel)
	setString(&c.BaseURL, EnvBaseURL)
	setString(&c.StorageEndpoint, EnvStorageEndpoint)
	setString(&c.UserID, EnvUserID)
	setString(&c.Log.Level, EnvLogLevel)
	setString(&c.Server.Address, EnvServerAddress)
}

func setString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = llm.ProviderGemini
	}
	if c.UserID == "" {
		c.UserID = DefaultUserID
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = retry.DefaultMaxAttempts
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = DefaultRateLimit
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = DefaultRateBurst
	}
	if c.Log.Level == "" {
		c.Log.Level = logger.LevelNormal.String()
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", llm.ProviderGemini, llm.ProviderOpenAI, c.Provider)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 1 {
		return errors.New("server rate_limit must be >= 0 and rate_burst >= 1")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be blank")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Mode reports whether the config can call a real model.
func (c *Config) Mode() Mode {
	if strings.TrimSpace(c.APIKey) == "" {
		return ModeOffline
	}
	return ModeOnline
}

// LLMSettings returns the completer settings.
func (c *Config) LLMSettings() llm.Settings {
	return llm.Settings{
		Provider:        c.Provider,
		APIKey:          c.APIKey,
		Model:           c.Model,
		BaseURL:         c.BaseURL,
		SearchGrounding: c.SearchGrounding,
	}
}

// Level parses the configured log level.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}
