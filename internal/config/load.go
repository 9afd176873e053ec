package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before any file or environment source.
const (
	DefaultPort            = 3000
	DefaultEnvironment     = "development"
	DefaultLogLevel        = "info"
	DefaultMaxBodyBytes    = 100 << 10
	DefaultShutdownTimeout = "10s"
	DefaultAPIName         = "Relay API"
	DefaultAPIVersion      = "1.0.0"
	DefaultDocumentation   = "See README.md for more information"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom populates a Config using the given viper instance. Tests use it to
// inject values without touching the process environment.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional unprefixed names win over the RELAY_ ones.
	bindings := map[string][]string{
		"server.port":        {"PORT", "RELAY_SERVER_PORT"},
		"server.environment": {"APP_ENV", "NODE_ENV", "RELAY_SERVER_ENVIRONMENT"},
		"server.log_level":   {"LOG_LEVEL", "RELAY_SERVER_LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.environment", DefaultEnvironment)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("api.name", DefaultAPIName)
	v.SetDefault("api.version", DefaultAPIVersion)
	v.SetDefault("api.documentation", DefaultDocumentation)
}
