package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	OTLP     OTLPConfig
	Client   ClientConfig
	SeedFile string
	LogLevel slog.Level
}

type ServerConfig struct {
	Port string
	Host string
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// ClientConfig configures the REST client used by the view models.
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	SearchDebounce time.Duration
}

// LoadConfig loads configuration from a .env file, if present, and then
// from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "3002"),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "bank-products"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
		Client: ClientConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3002"), "/"),
			Timeout:        getEnvDuration("API_TIMEOUT", 60*time.Second),
			SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		},
		SeedFile: getEnv("SEED_FILE", ""),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
