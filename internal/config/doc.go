// Package config loads and validates application configuration from an
// optional config.yaml and PULSE_-prefixed environment variables. It
// exposes one typed Config struct consumed at the composition root.
package config
