package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret is the HMAC signing secret. Signed tokens are the only
	// server-side authentication state, so the secret length is enforced.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Algorithm names the HMAC signing method (HS256, HS384, HS512).
	Algorithm string `mapstructure:"algorithm" validate:"required,oneof=HS256 HS384 HS512"`

	// AccessTokenTTLMinutes and RefreshTokenTTLMinutes are the independent
	// lifetimes of the two token kinds, in minutes.
	AccessTokenTTLMinutes  int `mapstructure:"access_token_ttl_minutes"  validate:"required,gt=0"`
	RefreshTokenTTLMinutes int `mapstructure:"refresh_token_ttl_minutes" validate:"required,gt=0"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (c AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (c AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLMinutes) * time.Minute
}
