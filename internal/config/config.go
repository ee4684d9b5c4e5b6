// Package config loads the server configuration from a YAML file with
// environment overrides. A .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved server configuration.
type Config struct {
	Port     string
	LogLevel string

	FetchTimeout  time.Duration
	CacheTTL      time.Duration
	MaxQuoteDepth int

	RateLimit  int
	RateWindow time.Duration

	// RedisAddr switches the fetch cache to Redis when set.
	RedisAddr string

	// MediaSecret signs media proxy URLs. Env only; empty means a
	// random per-process secret.
	MediaSecret string
}

// rawConfig represents the YAML structure.
type rawConfig struct {
	Server struct {
		Port     string `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Fetch struct {
		TimeoutSeconds  int `yaml:"timeout_seconds"`
		CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
		MaxQuoteDepth   int `yaml:"max_quote_depth"`
	} `yaml:"fetch"`
	RateLimit struct {
		Requests      int `yaml:"requests"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
}

// Load reads the YAML file at path (optional) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          "3000",
		LogLevel:      "INFO",
		FetchTimeout:  10 * time.Second,
		CacheTTL:      5 * time.Minute,
		MaxQuoteDepth: 3,
		RateLimit:     30,
		RateWindow:    time.Minute,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	return cfg, nil
}

// applyFile overlays the YAML file onto the defaults. A missing file is
// not an error; a malformed one is.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if raw.Server.Port != "" {
		c.Port = raw.Server.Port
	}
	if raw.Server.LogLevel != "" {
		c.LogLevel = raw.Server.LogLevel
	}
	if raw.Fetch.TimeoutSeconds > 0 {
		c.FetchTimeout = time.Duration(raw.Fetch.TimeoutSeconds) * time.Second
	}
	if raw.Fetch.CacheTTLMinutes > 0 {
		c.CacheTTL = time.Duration(raw.Fetch.CacheTTLMinutes) * time.Minute
	}
	if raw.Fetch.MaxQuoteDepth > 0 {
		c.MaxQuoteDepth = raw.Fetch.MaxQuoteDepth
	}
	if raw.RateLimit.Requests > 0 {
		c.RateLimit = raw.RateLimit.Requests
	}
	if raw.RateLimit.WindowSeconds > 0 {
		c.RateWindow = time.Duration(raw.RateLimit.WindowSeconds) * time.Second
	}
	if raw.Redis.Addr != "" {
		c.RedisAddr = raw.Redis.Addr
	}
	return nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v, ok := envInt("FETCH_TIMEOUT_SECONDS"); ok {
		c.FetchTimeout = time.Duration(v) * time.Second
	}
	if v, ok := envInt("CACHE_TTL_MINUTES"); ok {
		c.CacheTTL = time.Duration(v) * time.Minute
	}
	if v, ok := envInt("MAX_QUOTE_DEPTH"); ok {
		c.MaxQuoteDepth = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	c.MediaSecret = os.Getenv("MEDIA_HMAC_SECRET")
}

// envInt reads a positive integer environment variable.
func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
