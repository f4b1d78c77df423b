package config

import (
	"os"
	"strconv"
	"time"

	"chartsense/domain/outlier"
	"chartsense/internal"
	"chartsense/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Analysis AnalysisConfig
	Source   SourceConfig
	Batch    BatchConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LoggingConfig holds the log verbosity
type LoggingConfig struct {
	Level string
}

// AnalysisConfig holds detector defaults and input limits
type AnalysisConfig struct {
	Detection   outlier.DetectionConfig
	MaxRows     int // 0 means no limit
	MemoEntries int
}

// SourceConfig holds the default remote row source
type SourceConfig struct {
	URL      string
	DataPath string
	Timeout  time.Duration
	MaxBytes int // response body cap per request
}

// BatchConfig holds CLI batch settings
type BatchConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Logging:  LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Analysis: *loadAnalysisConfig(),
		Source:   *loadSourceConfig(),
		Batch:    BatchConfig{Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4)},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Detection: outlier.DetectionConfig{
			Method:      outlier.Method(getEnvOrDefault("DETECTION_METHOD", string(outlier.MethodIQR))),
			Sensitivity: getEnvFloatOrDefault("DETECTION_SENSITIVITY", outlier.DefaultSensitivity),
		},
		MaxRows:     getEnvIntOrDefault("MAX_ROWS", 0),
		MemoEntries: getEnvIntOrDefault("MEMO_ENTRIES", 64),
	}
}

func loadSourceConfig() *SourceConfig {
	return &SourceConfig{
		URL:      getEnvOrDefault("SOURCE_URL", ""),
		DataPath: getEnvOrDefault("SOURCE_DATA_PATH", ""),
		Timeout:  getEnvDurationOrDefault("SOURCE_TIMEOUT", 30*time.Second),
		MaxBytes: getEnvIntOrDefault("SOURCE_MAX_BYTES", 32<<20),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if _, ok := internal.ParseLogLevel(config.Logging.Level); !ok {
		return errors.ConfigInvalid("LOG_LEVEL must be ERROR, WARN, INFO, DEBUG or TRACE")
	}
	method, err := outlier.ParseMethod(string(config.Analysis.Detection.Method))
	if err != nil {
		return errors.ConfigInvalid("DETECTION_METHOD must be iqr, zscore or isolation")
	}
	config.Analysis.Detection.Method = method
	if config.Analysis.Detection.Sensitivity < 0 {
		return errors.ConfigInvalid("DETECTION_SENSITIVITY must not be negative")
	}
	if config.Analysis.MaxRows < 0 {
		return errors.ConfigInvalid("MAX_ROWS must not be negative")
	}
	if config.Analysis.MemoEntries <= 0 {
		return errors.ConfigInvalid("MEMO_ENTRIES must be positive")
	}
	if config.Source.Timeout <= 0 {
		return errors.ConfigInvalid("SOURCE_TIMEOUT must be positive")
	}
	if config.Source.MaxBytes <= 0 {
		return errors.ConfigInvalid("SOURCE_MAX_BYTES must be positive")
	}
	if config.Batch.Concurrency <= 0 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be positive")
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
