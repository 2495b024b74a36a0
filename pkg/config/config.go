package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/zatekoja/toursearch/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Server    ServerConfig
	Backend   BackendConfig
	Search    SearchConfig
	Directory DirectoryConfig
	Redis     RedisConfig
	OTEL      OTELConfig
}

// ServerConfig holds the session API server settings
type ServerConfig struct {
	Host               string
	Port               int
	AllowedOrigins     []string
	SessionIdleSeconds int
}

// BackendConfig holds the pricing backend connection settings
type BackendConfig struct {
	BaseURL           string
	TimeoutSeconds    int
	RequestsPerSecond int
}

// SearchConfig holds search job polling settings
type SearchConfig struct {
	MaxPollRetries     int
	DefaultPollDelayMs int
}

// DirectoryConfig holds directory lookup settings
type DirectoryConfig struct {
	RetryAttempts    int
	CacheTTLSeconds  int
	FetchConcurrency int
	FlatCityListing  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			SessionIdleSeconds: getEnvAsInt("SESSION_IDLE_SECONDS", 900),
		},
		Backend: BackendConfig{
			BaseURL:           getEnv("TOURS_API_BASE_URL", "http://localhost:3000/api"),
			TimeoutSeconds:    getEnvAsInt("TOURS_API_TIMEOUT_SECONDS", 10),
			RequestsPerSecond: getEnvAsInt("TOURS_API_REQUESTS_PER_SECOND", 20),
		},
		Search: SearchConfig{
			MaxPollRetries:     getEnvAsInt("SEARCH_MAX_POLL_RETRIES", 2),
			DefaultPollDelayMs: getEnvAsInt("SEARCH_DEFAULT_POLL_DELAY_MS", 1000),
		},
		Directory: DirectoryConfig{
			RetryAttempts:    getEnvAsInt("DIRECTORY_RETRY_ATTEMPTS", 2),
			CacheTTLSeconds:  getEnvAsInt("DIRECTORY_CACHE_TTL_SECONDS", 3600),
			FetchConcurrency: getEnvAsInt("DIRECTORY_FETCH_CONCURRENCY", 8),
			FlatCityListing:  getEnvAsBool("DIRECTORY_FLAT_CITY_LISTING", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "toursearch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the search core cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.NewValidationError("SERVER_PORT must be a valid port")
	}
	if c.Server.SessionIdleSeconds <= 0 {
		return apperrors.NewValidationError("SESSION_IDLE_SECONDS must be positive")
	}
	if c.Backend.BaseURL == "" {
		return apperrors.NewValidationError("TOURS_API_BASE_URL must not be empty")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return apperrors.NewValidationError("TOURS_API_TIMEOUT_SECONDS must be positive")
	}
	if c.Search.MaxPollRetries < 0 {
		return apperrors.NewValidationError("SEARCH_MAX_POLL_RETRIES must not be negative")
	}
	if c.Search.DefaultPollDelayMs < 0 {
		return apperrors.NewValidationError("SEARCH_DEFAULT_POLL_DELAY_MS must not be negative")
	}
	if c.Directory.RetryAttempts < 1 {
		return apperrors.NewValidationError("DIRECTORY_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Directory.FetchConcurrency < 1 {
		return apperrors.NewValidationError("DIRECTORY_FETCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionIdle returns how long an untouched session is kept
func (c *ServerConfig) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleSeconds) * time.Second
}

// Timeout returns the backend request timeout
func (c *BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultPollDelay returns the poll delay used when the backend gives no hint
func (c *SearchConfig) DefaultPollDelay() time.Duration {
	return time.Duration(c.DefaultPollDelayMs) * time.Millisecond
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
