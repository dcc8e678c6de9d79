package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings for the server and tools. Values come
// from the environment, with an optional .env file for local development.
type Config struct {
	DatabaseURL string   `envconfig:"DATABASE_URL" required:"true"`
	Port        string   `envconfig:"PORT" default:"8081"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	ConsultantWebhookURL     string `envconfig:"CONSULTANT_WEBHOOK_URL" default:"https://n8n.eimlabs.io/webhook/consultant-chat"`
	CreateProposalWebhookURL string `envconfig:"CREATE_PROPOSAL_WEBHOOK_URL" default:"https://n8n.eimlabs.io/webhook/create-proposal"`
	WebhookTimeoutSeconds    int    `envconfig:"WEBHOOK_TIMEOUT_SECONDS" default:"30"`

	// Cron expression for the overdue proposal sweep.
	SweepSchedule string `envconfig:"SWEEP_SCHEDULE" default:"0 * * * *"`
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// WebhookTimeout returns the configured webhook timeout as a duration.
func (c Config) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSeconds) * time.Second
}
