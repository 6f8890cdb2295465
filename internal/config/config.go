package config

import (
	"os"
	"strconv"
	"time"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Storage   StorageConfig
	Server    ServerConfig
	Ingestion IngestionConfig
}

// StorageConfig holds object-storage settings. Bucket and RawPrefix must
// resolve before any build or upload is attempted.
type StorageConfig struct {
	Bucket    string
	RawPrefix string
	Region    string

	// FetchTimeout bounds one object read; a timed-out fetch is a
	// per-object failure, not a build abort.
	FetchTimeout time.Duration
	// FetchConcurrency bounds parallel object reads during a build.
	FetchConcurrency int
}

// ServerConfig holds query-service settings
type ServerConfig struct {
	Port string
}

// IngestionConfig holds stager settings
type IngestionConfig struct {
	// DatasetPath is the root of the local file tree the stager scans.
	DatasetPath string
	// APIBaseURL is the query service the stager notifies after uploads.
	APIBaseURL string
	// NotifyTimeout bounds each fire-and-forget notification call.
	NotifyTimeout time.Duration
}

// Load reads configuration from environment variables and validates the
// fields every caller needs. Storage credentials themselves resolve through
// the SDK's default chain.
func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Bucket:           os.Getenv("S3_BUCKET_NAME"),
			RawPrefix:        getEnvOrDefault("S3_RAW_PREFIX", "raw/"),
			Region:           getEnvOrDefault("AWS_REGION", "ap-northeast-2"),
			FetchTimeout:     getEnvDurationOrDefault("FETCH_TIMEOUT", 10*time.Second),
			FetchConcurrency: getEnvIntOrDefault("FETCH_CONCURRENCY", 8),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("API_PORT", "8002"),
		},
		Ingestion: IngestionConfig{
			DatasetPath:   getEnvOrDefault("DATASET_PATH", "/opt/pipeline/dataset"),
			APIBaseURL:    getEnvOrDefault("API_BASE_URL", "http://localhost:8002"),
			NotifyTimeout: getEnvDurationOrDefault("NOTIFY_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks the fields a build or upload cannot run without.
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return errors.ConfigInvalid("S3_BUCKET_NAME is required")
	}
	if c.Storage.RawPrefix == "" {
		return errors.ConfigInvalid("S3_RAW_PREFIX is required")
	}
	if c.Storage.FetchConcurrency < 1 {
		return errors.ConfigInvalid("FETCH_CONCURRENCY must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
