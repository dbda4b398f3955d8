// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups; each binary uses the groups
// relevant to it (the gateway has no database, the backends no routes).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Services ServicesConfig `mapstructure:"services"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs access tokens. Only the users service holds it;
	// other services verify identities remotely.
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"omitempty,gt=0"`
}

// ServicesConfig holds the base URLs of the backend services, used by the
// gateway for routing and by the content service for remote identity
// verification.
type ServicesConfig struct {
	UsersURL   string `mapstructure:"users_url"   validate:"omitempty,url"`
	ContentURL string `mapstructure:"content_url" validate:"omitempty,url"`
}

// CORSConfig lists the origins allowed to call the service cross-origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
