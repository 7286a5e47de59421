// Package config provides configuration management for the tree similarity
// join service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Join      JoinConfig      `mapstructure:"join"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// JoinConfig holds the default behavior of the join/lookup drivers.
type JoinConfig struct {
	// DataDir is where imported/exported corpora are cached on local disk.
	DataDir string `mapstructure:"data_dir"`

	// DefaultAlgo selects the candidate-generation strategy: naive, tjoin,
	// guha, tang or lookup/scan for single-query lookups.
	DefaultAlgo string `mapstructure:"default_algo"`

	// DefaultTau is the distance threshold applied when a CLI invocation
	// doesn't specify --tau.
	DefaultTau int `mapstructure:"default_tau"`

	// Capabilities names the tree-index capability set a kernel run builds
	// (e.g. "zs", "apted", "touzet", "jedi"). Each algorithm only indexes
	// the arrays it actually reads.
	Capabilities string `mapstructure:"capabilities"`

	// MaxWorker bounds how many independent join/lookup invocations a batch
	// CLI run may fan out at once. Each invocation still runs its own
	// single-threaded engine with disjoint components; this only governs
	// cross-invocation parallelism.
	MaxWorker int `mapstructure:"max_worker"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // postgres, mysql or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// TelemetryConfig controls whether join/lookup invocations open OTEL spans.
// The actual exporter endpoint and protocol are still read by pkg/telemetry
// from its own OTEL_* environment variables; this flag just lets a config
// file opt a deployment in without touching the environment.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Determine config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/simjoin")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Check if it's a "file not found" error (either viper's type or os error)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, use defaults
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Join defaults
	v.SetDefault("join.data_dir", "./data")
	v.SetDefault("join.default_algo", "tjoin")
	v.SetDefault("join.default_tau", 1)
	v.SetDefault("join.capabilities", "apted")
	v.SetDefault("join.max_worker", 4)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "./simjoin.db")
	v.SetDefault("database.max_conns", 10)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	// Storage config validation is delegated to the treestorage package.

	if c.Join.MaxWorker < 1 {
		return fmt.Errorf("join max_worker must be at least 1")
	}
	if c.Join.DefaultTau < 0 {
		return fmt.Errorf("join default_tau must be non-negative")
	}

	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	if c.Join.DataDir == "" {
		return nil
	}
	return os.MkdirAll(c.Join.DataDir, 0755)
}

// GetCorpusDir returns the cache directory for a named corpus.
func (c *Config) GetCorpusDir(corpus string) string {
	return filepath.Join(c.Join.DataDir, corpus)
}
