// Package config loads worklens settings from defaults, an optional YAML
// file, a .env file and WORKLENS_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. WORKLENS_SCHEMA.
const EnvPrefix = "WORKLENS"

type Config struct {
	Schema    string        `yaml:"schema" envconfig:"SCHEMA" validate:"oneof=auto v1 v2 v3"`
	Sheet     string        `yaml:"sheet" envconfig:"SHEET"`
	Level     string        `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=project task subtask subcategory"`
	Measure   string        `yaml:"measure" envconfig:"MEASURE" validate:"oneof=elapsed count"`
	ExportDir string        `yaml:"export_dir" envconfig:"EXPORT_DIR" validate:"required"`
	Logging   LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	// File receives the JSON log; empty disables logging.
	File string `yaml:"file" envconfig:"FILE"`
}

// Dir is the per-user configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "worklens"), nil
}

// DefaultPath is where Load looks for the YAML file unless
// WORKLENS_CONFIG names another.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the built-in settings.
func Default() Config {
	cfg := Config{
		Schema:  "auto",
		Level:   "",
		Measure: "elapsed",
		Logging: LoggingConfig{Level: "info"},
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.ExportDir = home
	} else {
		cfg.ExportDir = "."
	}
	if dir, err := Dir(); err == nil {
		cfg.Logging.File = filepath.Join(dir, "worklens.log")
	}
	return cfg
}

// Load builds the configuration. path names the YAML file; when empty the
// default location is used. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := loadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config validation failed: %s=%q must satisfy %s %s",
				f.Namespace(), f.Value(), f.Tag(), f.Param())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
