// Package config loads and validates process configuration from
// environment variables and an optional config file.
package config
