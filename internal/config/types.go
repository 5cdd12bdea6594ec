package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName            string
	Port              string
	LogLevel          string
	RecomputeInterval time.Duration
	Slack             SlackConfig
	Turso             TursoConfig
	ProjectID         string
	S3                S3Config
}
type SlackConfig struct {
	Token     string
	ChannelID string
	// SigningSecret enables the slash command endpoints when set.
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}
