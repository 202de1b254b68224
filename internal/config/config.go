package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
}

// SessionConfig controls live study and match sessions.
type SessionConfig struct {
	// MatchDelay is how long matched pairs and mismatches stay highlighted.
	MatchDelay time.Duration `mapstructure:"match_delay" validate:"required,gt=0"`
	// IdleTTL is how long an untouched session survives before it is reaped.
	IdleTTL      time.Duration `mapstructure:"idle_ttl" validate:"required,gt=0"`
	ReapInterval time.Duration `mapstructure:"reap_interval" validate:"required,gt=0"`
	// ResetTalliesOnRestart makes restarting a study pass clear its
	// known/retry tallies. By default they carry over.
	ResetTalliesOnRestart bool `mapstructure:"reset_tallies_on_restart"`
	MaxPerUser            int  `mapstructure:"max_per_user" validate:"required,gt=0"`
}

// TaskConfig sizes the background worker pool used for progress recording.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
