package config

import (
	"fmt"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// DatabasePath is the location of the local card database file.
	DatabasePath string
	// BIN is the numeric prefix shared by every issued card number.
	BIN string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables override .env values, which override the
// defaults.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("CARD_DB_PATH", "card.s3db")
	viper.SetDefault("CARD_BIN", "400000")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabasePath: viper.GetString("CARD_DB_PATH"),
		BIN:          viper.GetString("CARD_BIN"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("CARD_DB_PATH cannot be empty")
	}
	if _, err := strconv.ParseUint(cfg.BIN, 10, 64); err != nil {
		return nil, fmt.Errorf("CARD_BIN must be numeric, got %q", cfg.BIN)
	}
	if len(cfg.BIN) != 6 {
		log.Printf("Warning: CARD_BIN %q is %d digits, issued numbers will not be 16 digits long\n", cfg.BIN, len(cfg.BIN))
	}

	return cfg, nil
}
