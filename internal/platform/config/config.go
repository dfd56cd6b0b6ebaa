package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Payment gateway
	GatewayBaseURL string
	GatewayAPIKey  string
	GatewayTimeout time.Duration

	// Caução (deposit hold) lifecycle
	PreAuthTTL time.Duration

	// Audit retention horizon
	AuditRetention time.Duration

	// Sweep schedules (cron specs)
	CreditSweepSpec    string
	PreAuthSweepSpec   string
	AuditRetentionSpec string

	// Notifier
	SendgridAPIKey    string
	NotifierFromEmail string
	NotifierFromName  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("GATEWAY_BASE_URL", "")
	viper.SetDefault("GATEWAY_API_KEY", "")
	viper.SetDefault("GATEWAY_TIMEOUT", "10s")
	viper.SetDefault("PREAUTH_TTL", "168h")
	viper.SetDefault("AUDIT_RETENTION", "2160h") // 90 days
	viper.SetDefault("CREDIT_SWEEP_SPEC", "0 * * * *")
	viper.SetDefault("PREAUTH_SWEEP_SPEC", "*/10 * * * *")
	viper.SetDefault("AUDIT_RETENTION_SPEC", "30 3 * * *")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("NOTIFIER_FROM_EMAIL", "no-reply@arena.example")
	viper.SetDefault("NOTIFIER_FROM_NAME", "Arena")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.GatewayBaseURL = viper.GetString("GATEWAY_BASE_URL")
	if cfg.GatewayBaseURL == "" {
		log.Println("Warning: GATEWAY_BASE_URL not set. Using the in-memory simulated gateway.")
	}
	cfg.GatewayAPIKey = viper.GetString("GATEWAY_API_KEY")
	cfg.GatewayTimeout = parseDurationOr("GATEWAY_TIMEOUT", 10*time.Second)
	cfg.PreAuthTTL = parseDurationOr("PREAUTH_TTL", 7*24*time.Hour)
	cfg.AuditRetention = parseDurationOr("AUDIT_RETENTION", 90*24*time.Hour)

	cfg.CreditSweepSpec = viper.GetString("CREDIT_SWEEP_SPEC")
	cfg.PreAuthSweepSpec = viper.GetString("PREAUTH_SWEEP_SPEC")
	cfg.AuditRetentionSpec = viper.GetString("AUDIT_RETENTION_SPEC")

	cfg.SendgridAPIKey = viper.GetString("SENDGRID_API_KEY")
	if cfg.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Notifications will be logged only.")
	}
	cfg.NotifierFromEmail = viper.GetString("NOTIFIER_FROM_EMAIL")
	cfg.NotifierFromName = viper.GetString("NOTIFIER_FROM_NAME")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
