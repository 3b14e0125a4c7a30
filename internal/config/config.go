package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultEnv         = "development"
	defaultHTTPHost    = "0.0.0.0"
	defaultHTTPPort    = 8080
	defaultMetricsPort = 9090
	defaultBarBuffer   = 4096
	defaultBarHistory  = 500
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env     string
	HTTP    HTTPConfig
	Metrics MetricsConfig
	Feed    FeedConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Port int
}

// FeedConfig holds the bar feed settings.
type FeedConfig struct {
	BufferSize int // inbound bar channel capacity
	BarHistory int // bars retained per instrument
}

// Load builds Config from environment variables. A .env file in the
// working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	metricsPort, err := getInt("METRICS_PORT", defaultMetricsPort)
	if err != nil {
		return nil, fmt.Errorf("parse METRICS_PORT: %w", err)
	}

	barBuffer, err := getInt("BAR_BUFFER_SIZE", defaultBarBuffer)
	if err != nil {
		return nil, fmt.Errorf("parse BAR_BUFFER_SIZE: %w", err)
	}

	barHistory, err := getInt("BAR_HISTORY", defaultBarHistory)
	if err != nil {
		return nil, fmt.Errorf("parse BAR_HISTORY: %w", err)
	}

	return &Config{
		Env: getString("APP_ENV", defaultEnv),
		HTTP: HTTPConfig{
			Host: getString("HTTP_HOST", defaultHTTPHost),
			Port: port,
		},
		Metrics: MetricsConfig{
			Port: metricsPort,
		},
		Feed: FeedConfig{
			BufferSize: barBuffer,
			BarHistory: barHistory,
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
