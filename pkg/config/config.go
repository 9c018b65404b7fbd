package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:3000"`

	// Database
	DBDriver string `env:"DB_DRIVER" envDefault:"postgres"` // "postgres" or "sqlite"
	DBDSN    string `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=postgres dbname=looppilot port=5432 sslmode=disable"`

	// Auth
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	// Google OAuth / Gmail
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI" envDefault:"http://localhost:8080/api/auth/google/callback"`

	// Gmail push notifications (optional)
	GoogleProjectID   string `env:"GOOGLE_PROJECT_ID"`
	GooglePubSubTopic string `env:"GOOGLE_PUBSUB_TOPIC"`
	GoogleCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Sync
	SyncLookbackDays int           `env:"SYNC_LOOKBACK_DAYS" envDefault:"30"`
	SyncMaxPages     int           `env:"SYNC_MAX_PAGES" envDefault:"3"`
	SyncInterval     time.Duration `env:"SYNC_INTERVAL" envDefault:"0s"` // 0 disables the scheduler

	// Stripe
	StripeSecretKey      string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`
	StripePriceIDWeekly  string `env:"STRIPE_PRICE_ID_WEEKLY"`
	StripePriceIDMonthly string `env:"STRIPE_PRICE_ID_MONTHLY"`

	// Draft generation
	AIProvider string `env:"AI_PROVIDER" envDefault:"template"` // template, openai, ollama, gemini
	AIAPIKey   string `env:"AI_API_KEY"`
	AIModel    string `env:"AI_MODEL"`
	AIBaseURL  string `env:"AI_BASE_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// StripeEnabled reports whether checkout and webhooks can be served.
func (c *Config) StripeEnabled() bool {
	return c.StripeSecretKey != ""
}

// PubSubTopicName returns the fully qualified Gmail watch topic, or "" when
// push notifications are not configured.
func (c *Config) PubSubTopicName() string {
	if c.GooglePubSubTopic == "" {
		return ""
	}
	if strings.HasPrefix(c.GooglePubSubTopic, "projects/") || c.GoogleProjectID == "" {
		return c.GooglePubSubTopic
	}
	return "projects/" + c.GoogleProjectID + "/topics/" + c.GooglePubSubTopic
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SyncMaxPages <= 0 {
		return nil, fmt.Errorf("SYNC_MAX_PAGES must be positive, got %d", cfg.SyncMaxPages)
	}
	if cfg.SyncLookbackDays <= 0 {
		return nil, fmt.Errorf("SYNC_LOOKBACK_DAYS must be positive, got %d", cfg.SyncLookbackDays)
	}

	return cfg, nil
}
