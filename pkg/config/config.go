// Package config provides configuration loading and validation for the stm server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort       = errors.New("invalid server port")
	ErrInvalidConcurrent = errors.New("max concurrent reports must be positive")
	ErrInvalidBlobCache  = errors.New("blob cache size must be positive")
)

// Default configuration values.
const (
	defaultPort                 = 8080
	defaultHost                 = "0.0.0.0"
	defaultBlobCacheSizeMB      = 64
	defaultMaxConcurrentReports = 4
	maxPort                     = 65535
)

// Config holds all configuration for the stm server.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
}

// ServerConfig holds MCP/HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
	Enabled      bool          `mapstructure:"enabled"`
}

// CacheConfig holds blob content cache configuration.
type CacheConfig struct {
	Directory       string        `mapstructure:"directory"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Enabled         bool          `mapstructure:"enabled"`
}

// EngineConfig holds stack-report engine configuration.
type EngineConfig struct {
	Timeout              time.Duration `mapstructure:"timeout"`
	IgnorePaths          []string      `mapstructure:"ignore_paths"`
	BlobCacheSizeMB      int           `mapstructure:"blob_cache_size_mb"`
	MaxConcurrentReports int           `mapstructure:"max_concurrent_reports"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RepositoryConfig holds repository access configuration.
type RepositoryConfig struct {
	MaxFileSize      string        `mapstructure:"max_file_size"`
	AllowedProtocols []string      `mapstructure:"allowed_protocols"`
	CloneTimeout     time.Duration `mapstructure:"clone_timeout"`
}

// CheckpointConfig holds incremental-report checkpoint configuration.
type CheckpointConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
	Resume  bool   `mapstructure:"resume"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/stm")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix("STM")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file.
	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Server defaults.
	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")

	// Cache defaults.
	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.directory", "/tmp/stm-cache")
	viperCfg.SetDefault("cache.ttl", "24h")
	viperCfg.SetDefault("cache.cleanup_interval", "1h")

	// Engine defaults.
	viperCfg.SetDefault("engine.blob_cache_size_mb", defaultBlobCacheSizeMB)
	viperCfg.SetDefault("engine.max_concurrent_reports", defaultMaxConcurrentReports)
	viperCfg.SetDefault("engine.timeout", "30m")

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stdout")

	// Repository defaults.
	viperCfg.SetDefault("repository.clone_timeout", "10m")
	viperCfg.SetDefault("repository.max_file_size", "1MB")
	viperCfg.SetDefault("repository.allowed_protocols", []string{"https", "http", "ssh", "git"})

	// Checkpoint defaults.
	viperCfg.SetDefault("checkpoint.enabled", true)
	viperCfg.SetDefault("checkpoint.resume", true)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Engine.MaxConcurrentReports <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrent, config.Engine.MaxConcurrentReports)
	}

	if config.Engine.BlobCacheSizeMB <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlobCache, config.Engine.BlobCacheSizeMB)
	}

	return nil
}
