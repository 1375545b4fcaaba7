package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Paths     PathConfig
	HH        HHConfig
	Collector CollectorConfig
	Analytics AnalyticsConfig
	Telegram  TelegramConfig
	Dashboard DashboardConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir     string
	CatalogFile string
	B1File      string
}

// HHConfig holds hh.ru API settings
type HHConfig struct {
	BaseURL      string
	OAuthURL     string
	UserAgent    string
	AccessToken  string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	ProxyURL     string
	Area         int
	PerPage      int
	MaxPages     int
	RequestDelay time.Duration
	Timeout      time.Duration
}

// CollectorConfig holds the background collection settings
type CollectorConfig struct {
	Interval    time.Duration
	RunOnStart  bool
	Parallelism int
}

// AnalyticsConfig holds the statistics settings
type AnalyticsConfig struct {
	// OutlierMultiplier drops salaries above multiplier x median; 0 disables the filter
	OutlierMultiplier float64
	HistogramBins     int
}

// TelegramConfig holds the optional collection notifications
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether notifications can be sent
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// DashboardConfig holds the terminal report settings
type DashboardConfig struct {
	APIURL  string
	Timeout time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnvOrDefault("HOST", "0.0.0.0"),
			Port: getEnvIntOrDefault("PORT", 8000),
		},
		Paths: PathConfig{
			DataDir:     getEnvOrDefault("DATA_DIR", "final_folder"),
			CatalogFile: getEnvOrDefault("CATALOG_FILE", ""),
			B1File:      getEnvOrDefault("B1_FILE", ""),
		},
		HH: HHConfig{
			BaseURL:      getEnvOrDefault("HH_API_URL", "https://api.hh.ru"),
			OAuthURL:     getEnvOrDefault("HH_OAUTH_URL", "https://hh.ru"),
			UserAgent:    getEnvOrDefault("HH_USER_AGENT", "salarybarometer/1.0 (barometer@example.com)"),
			AccessToken:  getEnvOrDefault("HH_ACCESS_TOKEN", ""),
			ClientID:     getEnvOrDefault("HH_CLIENT_ID", ""),
			ClientSecret: getEnvOrDefault("HH_CLIENT_SECRET", ""),
			RedirectURI:  getEnvOrDefault("HH_REDIRECT_URI", "urn:ietf:wg:oauth:2.0:oob"),
			ProxyURL:     getEnvOrDefault("HH_PROXY", ""),
			Area:         getEnvIntOrDefault("HH_AREA", 2),
			// hh.ru answers 400 once page*per_page passes 2000, 99 keeps 20 pages legal
			PerPage:      getEnvIntOrDefault("HH_PER_PAGE", 99),
			MaxPages:     getEnvIntOrDefault("HH_MAX_PAGES", 20),
			RequestDelay: getEnvDurationOrDefault("HH_REQUEST_DELAY", time.Second),
			Timeout:      getEnvDurationOrDefault("HH_TIMEOUT", 30*time.Second),
		},
		Collector: CollectorConfig{
			Interval:    getEnvDurationOrDefault("COLLECT_INTERVAL", 12*time.Hour),
			RunOnStart:  getEnvBoolOrDefault("COLLECT_ON_START", false),
			Parallelism: getEnvIntOrDefault("COLLECT_PARALLELISM", 1),
		},
		Analytics: AnalyticsConfig{
			OutlierMultiplier: getEnvFloatOrDefault("OUTLIER_MULTIPLIER", 0),
			HistogramBins:     getEnvIntOrDefault("HISTOGRAM_BINS", 10),
		},
		Telegram: TelegramConfig{
			BotToken: getEnvOrDefault("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnvOrDefault("TELEGRAM_CHAT_ID", ""),
		},
		Dashboard: DashboardConfig{
			APIURL:  strings.TrimRight(getEnvOrDefault("BAROMETER_API_URL", "http://localhost:8000"), "/"),
			Timeout: getEnvDurationOrDefault("BAROMETER_API_TIMEOUT", 15*time.Second),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail far from their source
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.ConfigInvalid("PORT must be between 1 and 65535")
	}
	if c.Paths.DataDir == "" {
		return errors.ConfigInvalid("DATA_DIR is required")
	}
	if c.HH.PerPage <= 0 || c.HH.PerPage > 100 {
		return errors.ConfigInvalid("HH_PER_PAGE must be between 1 and 100")
	}
	if c.HH.MaxPages <= 0 {
		return errors.ConfigInvalid("HH_MAX_PAGES must be positive")
	}
	if c.HH.UserAgent == "" {
		return errors.ConfigInvalid("HH_USER_AGENT is required by hh.ru")
	}
	if c.Collector.Interval <= 0 {
		return errors.ConfigInvalid("COLLECT_INTERVAL must be positive")
	}
	if c.Collector.Parallelism <= 0 {
		return errors.ConfigInvalid("COLLECT_PARALLELISM must be positive")
	}
	if c.Analytics.OutlierMultiplier < 0 {
		return errors.ConfigInvalid("OUTLIER_MULTIPLIER must not be negative")
	}
	if c.Analytics.HistogramBins <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
