// Package common provides shared utilities for the portfolio analyzer.
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the analyzer server.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	PortfolioFile string `toml:"portfolio_file"` // flat JSON ledger, rewritten on every mutation
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub      FinnhubConfig      `toml:"finnhub"`
	Yahoo        YahooConfig        `toml:"yahoo"`
	Newsfilter   NewsfilterConfig   `toml:"newsfilter"`
	GoogleNews   GoogleNewsConfig   `toml:"googlenews"`
	ForexFactory ForexFactoryConfig `toml:"forexfactory"`
	Gemini       GeminiConfig       `toml:"gemini"`
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// YahooConfig holds Yahoo Finance news search configuration
type YahooConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// NewsfilterConfig holds newsfilter.io market feed configuration
type NewsfilterConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NewsfilterConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 15*time.Second)
}

// GoogleNewsConfig holds Google News RSS feed configuration
type GoogleNewsConfig struct {
	FeedURL string `toml:"feed_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GoogleNewsConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// ForexFactoryConfig holds economic calendar feed configuration
type ForexFactoryConfig struct {
	FeedURL string `toml:"feed_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ForexFactoryConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8001,
		},
		Storage: StorageConfig{
			PortfolioFile: "data/portfolio_data.json",
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				RateLimit: 10,
				Timeout:   "10s",
			},
			Yahoo: YahooConfig{
				BaseURL: "https://query1.finance.yahoo.com",
				Timeout: "10s",
			},
			Newsfilter: NewsfilterConfig{
				BaseURL: "https://api.newsfilter.io",
				Timeout: "15s",
			},
			GoogleNews: GoogleNewsConfig{
				FeedURL: "https://news.google.com/rss/search?q=stock+market+OR+wall+street+OR+nasdaq+OR+dow+jones+when:1d&hl=en-US&gl=US&ceid=US:en",
				Timeout: "10s",
			},
			ForexFactory: ForexFactoryConfig{
				FeedURL: "https://nfs.faireconomy.media/ff_calendar_thisweek.json",
				Timeout: "10s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_PORTFOLIO_FILE"); path != "" {
		config.Storage.PortfolioFile = path
	}

	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}

	if model := os.Getenv("FOLIO_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
