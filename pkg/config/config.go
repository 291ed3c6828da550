// Package config loads the library's configuration from a YAML file
// and/or environment variables and validates it before any connection
// is opened.
//
// Env vars use the BEAN4GO_ prefix with "__" as the nesting delimiter:
// BEAN4GO_DB__HOST -> db.host. A .env file, when present, is loaded
// into the process environment first.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/ammar0144/bean4go/pkg/db"
	"github.com/ammar0144/bean4go/pkg/redis"
)

// envPrefix scopes which environment variables are read
const envPrefix = "BEAN4GO_"

// Config is the root configuration object
type Config struct {
	DB    db.Config    `yaml:"db" koanf:"db" validate:"required"`
	Redis redis.Config `yaml:"redis" koanf:"redis"`
}

// Load builds the configuration by layering, in order: YAML file (when
// path is non-empty), then BEAN4GO_-prefixed environment variables.
// The result is defaulted and validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal env config: %w", err)
	}

	cfg.DB.ApplyDefaults()
	cfg.Redis.ApplyDefaults()

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.DB.Validate(); err != nil {
		return nil, fmt.Errorf("invalid db config: %w", err)
	}
	if err := cfg.Redis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	return cfg, nil
}

// LoadEnv builds the configuration from environment variables only
func LoadEnv() (*Config, error) {
	return Load("")
}
