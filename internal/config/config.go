package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// DefaultRecomputeInterval applies when RANKING_UPDATE_INTERVAL is unset or invalid.
const DefaultRecomputeInterval = 24 * time.Hour

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	// A helper to get a required env var. Missing keys are collected and reported together.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:            getEnv("DB_NAME"),
		Port:              optional("PORT", "8080"),
		LogLevel:          optional("LOG_LEVEL", "info"),
		RecomputeInterval: ParseRecomputeInterval(optional("RANKING_UPDATE_INTERVAL", "")),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		S3: S3Config{
			Bucket:          optional("AWS_BUCKET_NAME", ""),
			Region:          optional("AWS_REGION", "us-east-1"),
			AccessKeyID:     optional("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: optional("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        optional("S3_ENDPOINT", ""),
		},
	}

	if cfg.Slack.Token != "" && cfg.Slack.ChannelID == "" {
		missing = append(missing, "SLACK_CHANNEL_ID")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// ParseRecomputeInterval accepts a Go duration ("6h", "90m") or a whole
// number of hours ("24"). Empty, invalid or non-positive values yield
// DefaultRecomputeInterval.
func ParseRecomputeInterval(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRecomputeInterval
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		hours, herr := strconv.ParseFloat(raw, 64)
		if herr != nil {
			log.Warn("Invalid ranking update interval, using default", "value", raw, "default", DefaultRecomputeInterval)
			return DefaultRecomputeInterval
		}
		d = time.Duration(hours * float64(time.Hour))
	}
	if d <= 0 {
		log.Warn("Non-positive ranking update interval, using default", "value", raw, "default", DefaultRecomputeInterval)
		return DefaultRecomputeInterval
	}
	return d
}

// Enabled reports whether S3 uploads are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}
