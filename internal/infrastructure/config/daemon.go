package config

import "time"

// DaemonConfig holds planner daemon configuration
type DaemonConfig struct {
	// gRPC listen address: host:port, or unix:///path/to/socket
	Address string `mapstructure:"address" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Per-daemon request throttle
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size
	Burst int `mapstructure:"burst" validate:"min=1"`
}
