package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lingodrill/internal/domain"
)

// Config holds all application configuration
type Config struct {
	BotToken       string
	BotPassword    string
	ReviewTimezone string
	Database       DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		BotPassword:    os.Getenv("BOT_PASSWORD"),
		ReviewTimezone: getEnv("REVIEW_TIMEZONE", domain.DefaultReviewTimezone),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "lingodrill"),
			User:     getEnv("DB_USER", "lingodrill"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if _, err := time.LoadLocation(cfg.ReviewTimezone); err != nil {
		return nil, fmt.Errorf("REVIEW_TIMEZONE is invalid: %w", err)
	}

	return cfg, nil
}

// Location returns the fixed civil timezone for review day boundaries
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ReviewTimezone)
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
