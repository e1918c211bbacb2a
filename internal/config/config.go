package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Preset sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

var ErrUnknownSource = errors.New("unknown preset source")

// Config holds all configuration for the attribute tooling.
type Config struct {
	LogLevel string `yaml:"log_level" env:"GAMEATTR_LOG_LEVEL"`

	Presets  PresetsConfig  `yaml:"presets"`
	Database DatabaseConfig `yaml:"database"`

	// Tags registered at startup, before presets are resolved.
	Tags []string `yaml:"tags" env:"GAMEATTR_TAGS" envSeparator:","`
}

// PresetsConfig selects where attribute presets are loaded from.
type PresetsConfig struct {
	Source          string `yaml:"source" env:"GAMEATTR_PRESET_SOURCE"`
	Dir             string `yaml:"dir" env:"GAMEATTR_PRESET_DIR"`
	SQLitePath      string `yaml:"sqlite_path" env:"GAMEATTR_SQLITE_PATH"`
	LoadConcurrency int    `yaml:"load_concurrency" env:"GAMEATTR_PRESET_CONCURRENCY"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"GAMEATTR_DB_HOST"`
	Port     int    `yaml:"port" env:"GAMEATTR_DB_PORT"`
	User     string `yaml:"user" env:"GAMEATTR_DB_USER"`
	Password string `yaml:"password" env:"GAMEATTR_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"GAMEATTR_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"GAMEATTR_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Presets: PresetsConfig{
			Source:          SourceFile,
			Dir:             "data/presets",
			SQLitePath:      "data/presets.db",
			LoadConcurrency: 4,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "gameattr",
			Password: "gameattr",
			DBName:   "gameattr",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file, then applies GAMEATTR_* environment overrides.
// If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field combinations.
func (c Config) Validate() error {
	switch c.Presets.Source {
	case SourceFile:
		if c.Presets.Dir == "" {
			return errors.New("presets.dir is required for file source")
		}
	case SourceSQLite:
		if c.Presets.SQLitePath == "" {
			return errors.New("presets.sqlite_path is required for sqlite source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Presets.Source)
	}
	if c.Presets.LoadConcurrency < 0 {
		return fmt.Errorf("presets.load_concurrency must be >= 0, got %d", c.Presets.LoadConcurrency)
	}
	return nil
}
