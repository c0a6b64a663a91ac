package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// MobyGames
	MobyGamesAPIKey string
	MobyGamesURL    string
	RequestInterval time.Duration // Minimum spacing between outbound API calls

	// Security
	DigestSecret  string // HMAC secret for email digests and recovery answers
	EncryptionKey []byte // 32-byte AES key for stored email addresses

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gamegrinding.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("MOBYGAMES_URL", "https://api.mobygames.com/v1")
	viper.SetDefault("REQUEST_INTERVAL_MS", 1200)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gamegrinding")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// MobyGames
		MobyGamesAPIKey: viper.GetString("MOBYGAMES_API_KEY"),
		MobyGamesURL:    viper.GetString("MOBYGAMES_URL"),
		RequestInterval: time.Duration(viper.GetInt("REQUEST_INTERVAL_MS")) * time.Millisecond,

		// Security
		DigestSecret: viper.GetString("DIGEST_SECRET"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "gamegrinding.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.MobyGamesAPIKey == "" {
		return nil, fmt.Errorf("MOBYGAMES_API_KEY is required")
	}
	if config.RequestInterval <= 0 {
		return nil, fmt.Errorf("REQUEST_INTERVAL_MS must be positive")
	}
	if config.DigestSecret == "" {
		return nil, fmt.Errorf("DIGEST_SECRET is required")
	}

	encryptionKeyHex := viper.GetString("ENCRYPTION_KEY")
	if encryptionKeyHex == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	config.EncryptionKey = key

	return config, nil
}
