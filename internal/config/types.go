package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	Sweep         SweepConfig
	ProjectID     string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SweepConfig tunes the deadline sweeper and match locking.
type SweepConfig struct {
	Interval time.Duration
	LeadTime time.Duration
	LockTTL  time.Duration
}
