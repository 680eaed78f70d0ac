// Package config provides client configuration from command-line flags, environment variables, and .env files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the durable local store.
const (
	StorageBadger = "badger"
	StorageSQLite = "sqlite"
)

// Config holds the client configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL  string        // Backend base URL (default: http://localhost:8080/)
	Timeout  time.Duration // Per-request timeout (default: 30s)
	RateRPS  float64       // Outbound requests per second, 0 disables throttling
	Burst    int           // Token bucket burst (default: 5)
	PageSize int           // Newsletters fetched per page (default: 10)
}

// StorageConfig holds durable local storage configuration.
type StorageConfig struct {
	Backend string // badger or sqlite
	DataDir string // default: ~/.recipebook
}

// Flags carries values from the command line. Empty strings mean "not set".
type Flags struct {
	Env        string
	LogLevel   string
	APIBaseURL string
	APITimeout string
	RateLimit  string
	Storage    string
	DataDir    string
	EnvFile    string
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:  getConfigValue(flags.APIBaseURL, "API_BASE_URL", "http://localhost:8080/"),
			Burst:    getIntConfigValue("", "API_RATE_BURST", 5),
			PageSize: getIntConfigValue("", "NEWSLETTER_PAGE_SIZE", 10),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getConfigValue(flags.Storage, "STORAGE_BACKEND", StorageBadger)),
			DataDir: getConfigValue(flags.DataDir, "DATA_DIR", ""),
		},
	}

	timeoutStr := getConfigValue(flags.APITimeout, "API_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout %q: %w", timeoutStr, err)
	}
	cfg.API.Timeout = timeout

	rpsStr := getConfigValue(flags.RateLimit, "API_RATE_LIMIT", "0")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid api rate limit %q: %w", rpsStr, err)
	}
	cfg.API.RateRPS = rps

	if err := cfg.expandDataDir(); err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	if c.API.RateRPS < 0 {
		return errors.New("api rate limit cannot be negative")
	}
	if c.API.RateRPS > 0 && c.API.Burst < 1 {
		return errors.New("api rate burst must be at least 1 when rate limiting is enabled")
	}
	if c.API.PageSize < 1 {
		return errors.New("newsletter page size must be at least 1")
	}

	switch c.Storage.Backend {
	case StorageBadger, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage backend: %q (must be badger or sqlite)", c.Storage.Backend)
	}

	if c.Storage.DataDir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, the default is used as-is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataDir defaults the data dir to ~/.recipebook.
func (c *Config) expandDataDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Storage.DataDir, filepath.Join(homeDir, ".recipebook"))
	if err != nil {
		return err
	}
	c.Storage.DataDir = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}
