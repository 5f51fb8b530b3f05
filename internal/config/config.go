package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataFile          string
	LogLevel          string
	Currency          string
	SessionSecret     string
	SessionTTL        time.Duration
	AdminPasswordHash string
	StatementSecret   string
	BackupDir         string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	// a missing .env is the normal case
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg := &Config{
		DataFile:          getEnv("DATA_FILE", "data.json"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Currency:          getEnv("CURRENCY", "INR"),
		SessionSecret:     getEnv("SESSION_SECRET", "change-me-session-secret"),
		SessionTTL:        ttl,
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		StatementSecret:   getEnv("STATEMENT_SECRET", "change-me-statement-secret"),
		BackupDir:         getEnv("BACKUP_DIR", "backups"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("DATA_FILE is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if money.GetCurrency(cfg.Currency) == nil {
		return nil, fmt.Errorf("unknown CURRENCY %q", cfg.Currency)
	}

	return cfg, nil
}

// MailEnabled reports whether enough SMTP settings are present to send notifications
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
