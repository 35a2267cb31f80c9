// Package config holds service configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the tunables for the comparison service.
type Config struct {
	ListenAddr  string
	MetricsAddr string // empty disables the metrics endpoint

	OpenAIKey           string
	RankerMode          string // openai or heuristic
	RankerModel         string
	PerSourceCap        int
	DeprioritizedSource string

	MaxConcurrentFetches int
	FetchTimeout         time.Duration
	PerSourceLimit       int
	UserAgent            string
	RenderJS             bool // use headless Chrome for sources that need it

	Verbose bool
}

// DefaultConfig returns conservative defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:           ":8000",
		MetricsAddr:          ":9090",
		RankerMode:           "openai",
		RankerModel:          "gpt-4o",
		PerSourceCap:         2,
		DeprioritizedSource:  "eBay",
		MaxConcurrentFetches: 5,
		FetchTimeout:         30 * time.Second,
		PerSourceLimit:       10,
		UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Verbose:              false,
	}
}

// Load builds a config from the environment on top of the defaults. A .env
// file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")

	if v, ok := EnvString("LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := EnvString("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := EnvString("RANKER_MODE"); ok {
		cfg.RankerMode = v
	}
	if v, ok := EnvString("RANKER_MODEL"); ok {
		cfg.RankerModel = v
	}
	if v, ok := EnvString("USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok, err := EnvInt("MAX_CONCURRENT_FETCHES"); err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_FETCHES: %w", err)
	} else if ok {
		cfg.MaxConcurrentFetches = v
	}
	if v, ok, err := EnvInt("FETCH_TIMEOUT_SECONDS"); err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS: %w", err)
	} else if ok {
		cfg.FetchTimeout = time.Duration(v) * time.Second
	}
	if v, ok, err := EnvInt("PER_SOURCE_LIMIT"); err != nil {
		return nil, fmt.Errorf("invalid PER_SOURCE_LIMIT: %w", err)
	} else if ok {
		cfg.PerSourceLimit = v
	}
	if v, ok, err := EnvInt("PER_SOURCE_CAP"); err != nil {
		return nil, fmt.Errorf("invalid PER_SOURCE_CAP: %w", err)
	} else if ok {
		cfg.PerSourceCap = v
	}

	return cfg, nil
}

// EnvString reads a non-empty environment variable.
func EnvString(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

// EnvInt reads an integer environment variable; ok is false when unset.
func EnvInt(key string) (int, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.RankerMode != "openai" && c.RankerMode != "heuristic" {
		return fmt.Errorf("ranker mode must be openai or heuristic")
	}
	if c.RankerModel == "" {
		return fmt.Errorf("ranker model cannot be empty")
	}
	if c.PerSourceCap <= 0 {
		return fmt.Errorf("per-source cap must be positive")
	}
	if c.MaxConcurrentFetches <= 0 {
		return fmt.Errorf("max concurrent fetches must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.PerSourceLimit <= 0 {
		return fmt.Errorf("per-source limit must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}
