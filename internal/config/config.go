// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (VENTURELY_* runtime override)
//  2. Config file (~/.venturely/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Agent: backend base URL, request timeout, rate limit
//   - User: authenticated user identity and platform role
//   - Storage: local profile storage directory
//   - Logging: level and format
//   - Observability: OTLP trace export (see observability fields)
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidAgentURL indicates the agent base URL is missing or malformed.
	ErrInvalidAgentURL = errors.New("invalid agent base URL")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid request timeout")

	// ErrInvalidRateLimit indicates the request rate limit is out of range.
	ErrInvalidRateLimit = errors.New("invalid request rate limit")

	// ErrInvalidUserType indicates the user type is not a known platform role.
	ErrInvalidUserType = errors.New("invalid user type")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Platform user roles. The tool registry keys tool availability on these.
const (
	UserTypeEntrepreneur = "entrepreneur"
	UserTypeInvestor     = "investor"
	UserTypeLender       = "lender"
	UserTypeGrantor      = "grantor"
	UserTypePartner      = "partner"
)

// UserTypes lists every known platform role.
func UserTypes() []string {
	return []string{
		UserTypeEntrepreneur,
		UserTypeInvestor,
		UserTypeLender,
		UserTypeGrantor,
		UserTypePartner,
	}
}

// Defaults applied when neither environment nor config file set a value.
const (
	DefaultAgentBaseURL = "http://localhost:8080"
	DefaultUserType     = UserTypeEntrepreneur

	// DefaultRequestTimeout bounds a single non-streaming exchange.
	// Streaming requests are bounded by context, not this timeout.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultRequestsPerMinute is a generous client-side ceiling on
	// outbound agent requests.
	DefaultRequestsPerMinute = 60
)

// Config stores application configuration.
type Config struct {
	// Agent backend configuration
	AgentBaseURL      string        `mapstructure:"agent_base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`

	// Authenticated user identity. Empty UserID means no user is
	// signed in; the transport short-circuits before any network call.
	UserID   string `mapstructure:"user_id"`
	UserType string `mapstructure:"user_type"`

	// StorageDir holds the per-profile key-value store
	// (session identifier, conversation history).
	StorageDir string `mapstructure:"storage_dir"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
	LogJSON  bool   `mapstructure:"log_json"`

	// Observability configuration (OTLP trace export)
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
	Environment    string `mapstructure:"environment"`
}

// Load reads configuration from ~/.venturely/config.yaml and the
// environment, applies defaults, and validates the result.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, ".venturely"))
}

// LoadFrom reads configuration rooted at the given directory.
// The directory is created (0750) if missing so first run works
// without setup.
func LoadFrom(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("VENTURELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values on the viper instance.
func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("agent_base_url", DefaultAgentBaseURL)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("user_type", DefaultUserType)
	v.SetDefault("storage_dir", filepath.Join(dir, "storage"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("otlp_endpoint", "localhost:4318")
	v.SetDefault("service_name", "venturely")
	v.SetDefault("environment", "dev")
}
