// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, an optional config.yaml). It
// provides type-safe access to the settings needed by the gateway while keeping
// configuration details separate from request handling.
package config
