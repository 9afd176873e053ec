package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	API    APIConfig    `mapstructure:"api"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"        validate:"gte=0,lt=65536"`
	Environment string `mapstructure:"environment" validate:"required"`
	LogLevel    string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`

	// MaxBodyBytes caps the request body accepted by the body parsers.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gt=0"`

	// ShutdownTimeout bounds how long in-flight requests may drain on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// APIConfig describes the informational surface of the gateway.
type APIConfig struct {
	Name          string `mapstructure:"name"          validate:"required"`
	Version       string `mapstructure:"version"       validate:"required"`
	Documentation string `mapstructure:"documentation"`
}
