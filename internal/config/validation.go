package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Agent backend URL validation
	if c.AgentBaseURL == "" {
		return fmt.Errorf("%w: agent_base_url cannot be empty", ErrInvalidAgentURL)
	}
	u, err := url.Parse(c.AgentBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: must be an http(s) URL, got %q", ErrInvalidAgentURL, c.AgentBaseURL)
	}

	// 2. Timeout and rate limit ranges
	if c.RequestTimeout < time.Second || c.RequestTimeout > 10*time.Minute {
		return fmt.Errorf("%w: must be between 1s and 10m, got %s", ErrInvalidTimeout, c.RequestTimeout)
	}
	if c.RequestsPerMinute < 1 || c.RequestsPerMinute > 6000 {
		return fmt.Errorf("%w: must be between 1 and 6000, got %d", ErrInvalidRateLimit, c.RequestsPerMinute)
	}

	// 3. User type must be a known platform role when set
	if c.UserType != "" && !slices.Contains(UserTypes(), c.UserType) {
		return fmt.Errorf("%w: %q (known roles: %s)",
			ErrInvalidUserType, c.UserType, strings.Join(UserTypes(), ", "))
	}

	// 4. Log level
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel converts the configured log level string to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}
}
