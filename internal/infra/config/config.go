package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken    string
	DatabaseURL      string
	AdminTelegramID  int64
	LogLevel         string
	Environment      string
	NotifyHour       int    // local hour at which per-user weekly notifications fire
	BlockedUsersFile string // path to the durable blocked-user ledger
	QuotesFile       string // path to the quotes file, one quote per line
	MigrationsDir    string // path to SQL migrations
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	notifyHourStr := os.Getenv("NOTIFY_HOUR")
	if notifyHourStr == "" {
		cfg.NotifyHour = 9 // Default: 09:00 local
	} else {
		cfg.NotifyHour, err = strconv.Atoi(notifyHourStr)
		if err != nil || cfg.NotifyHour < 0 || cfg.NotifyHour > 23 {
			return nil, fmt.Errorf("invalid NOTIFY_HOUR: %q", notifyHourStr)
		}
	}

	cfg.BlockedUsersFile = os.Getenv("BLOCKED_USERS_FILE")
	if cfg.BlockedUsersFile == "" {
		cfg.BlockedUsersFile = "data/blocked_users.txt"
	}

	cfg.QuotesFile = os.Getenv("QUOTES_FILE")
	if cfg.QuotesFile == "" {
		cfg.QuotesFile = "quotes.txt"
	}

	cfg.MigrationsDir = os.Getenv("MIGRATIONS_DIR")
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	return cfg, nil
}
