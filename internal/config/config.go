// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the document store backend: "memory" or "sqlite".
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is "sqlite".
	SQLitePath string `koanf:"sqlite_path"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// StrictSubTeamScope makes branch leaders manage only sub-teams that
	// belong to their own team. Off by default to match the shipped
	// authorization policy.
	StrictSubTeamScope bool `koanf:"strict_subteam_scope"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Store:               "memory",
		SQLitePath:          "scoreboard.db",
		MaxLeaderboardLimit: 100,
		StrictSubTeamScope:  false,
	}
}
