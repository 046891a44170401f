// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Store   StoreConfig
	Discord DiscordConfig
	Auth    AuthConfig
	Jobs    JobsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string
}

// StoreConfig holds database configuration.
type StoreConfig struct {
	// DataPath is the base directory for the embedded database.
	DataPath string
}

// DiscordConfig holds the OAuth2 identity provider credentials.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIBase overrides the provider endpoint, used in tests.
	APIBase string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// TokenKeyHex is the PASETO v4 symmetric key as 64 hex characters.
	TokenKeyHex string
	// SessionDuration is how long issued sessions stay valid.
	SessionDuration time.Duration
}

// JobsConfig holds background job scheduling configuration.
type JobsConfig struct {
	// SyncInterval is the period of the full mirror-to-store reconciliation.
	SyncInterval time.Duration
	// SweepInterval is the period of the expired-session sweep.
	SweepInterval time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for database storage")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := flag.String("allowed-origins", "", "Comma-separated CORS origins")

	discordClientID := flag.String("discord-client-id", "", "Discord OAuth2 client id")
	discordClientSecret := flag.String("discord-client-secret", "", "Discord OAuth2 client secret")
	discordRedirectURL := flag.String("discord-redirect-url", "", "Discord OAuth2 redirect url")

	tokenKey := flag.String("token-key", "", "PASETO v4 symmetric key (64 hex characters)")
	sessionDuration := flag.String("session-duration", "", "Session lifetime (default: 2232h)")
	syncInterval := flag.String("sync-interval", "", "Mirror sync interval (default: 1h)")
	sweepInterval := flag.String("sweep-interval", "", "Session sweep interval (default: 6h)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitOrigins(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
		},
		Store: StoreConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Discord: DiscordConfig{
			ClientID:     getConfigValue(*discordClientID, "DISCORD_CLIENT_ID", ""),
			ClientSecret: getConfigValue(*discordClientSecret, "DISCORD_CLIENT_SECRET", ""),
			RedirectURL:  getConfigValue(*discordRedirectURL, "DISCORD_REDIRECT_URL", ""),
			APIBase:      getConfigValue("", "DISCORD_API_BASE", ""),
		},
		Auth: AuthConfig{
			TokenKeyHex: getConfigValue(*tokenKey, "TOKEN_KEY", ""),
		},
	}

	var err error
	if cfg.Auth.SessionDuration, err = parseDuration(*sessionDuration, "SESSION_DURATION", "2232h"); err != nil {
		return nil, err
	}
	if cfg.Jobs.SyncInterval, err = parseDuration(*syncInterval, "SYNC_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.Jobs.SweepInterval, err = parseDuration(*sweepInterval, "SWEEP_INTERVAL", "6h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
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
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
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

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Jobs.SyncInterval <= 0 {
		return errors.New("sync interval must be positive")
	}
	if c.Jobs.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if c.Auth.SessionDuration <= 0 {
		return errors.New("session duration must be positive")
	}

	// Discord credentials may be empty in development; login is then disabled
	// and only the public catalog endpoints work.

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/CreatorHub/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "CreatorHub", "data")

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
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

// parseDuration resolves a duration from flag, env var, or default.
func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
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

// splitOrigins parses a comma-separated origin list.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// loadEnvFile loads KEY=VALUE pairs from a file into the environment.
// Existing environment variables are not overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
