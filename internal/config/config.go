package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Sheet API
	SheetAPIURL        string
	HTTPTimeoutSeconds int // Transport timeout for sheet calls (default: 30)

	// Local mode stores the collection in a bolt file instead of the sheet,
	// mainly for offline use and testing.
	LocalMode bool

	// Watch mode
	RefreshCron string // Cron spec for background refreshes (default: @every 5m)

	// Paths
	CredentialsFile string // $CONFIG_DIR/credentials.json
	DatabaseFile    string // $CONFIG_DIR/filmtrack.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REFRESH_CRON", "@every 5m")
	viper.SetDefault("LOCAL_MODE", false)
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "filmtrack")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		SheetAPIURL:        viper.GetString("SHEET_API_URL"),
		HTTPTimeoutSeconds: viper.GetInt("HTTP_TIMEOUT_SECONDS"),
		LocalMode:          viper.GetBool("LOCAL_MODE"),
		RefreshCron:        viper.GetString("REFRESH_CRON"),
		CredentialsFile:    filepath.Join(configDir, "credentials.json"),
		DatabaseFile:       filepath.Join(configDir, "filmtrack.db"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
	}

	if !config.LocalMode && config.SheetAPIURL == "" {
		return nil, fmt.Errorf("SHEET_API_URL is required unless LOCAL_MODE is enabled")
	}

	return config, nil
}
