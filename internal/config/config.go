// Package config resolves runtime configuration for the front ends.
package config

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration. The only setting this tool carries is
// the path to the store file.
type Config struct {
	DBPath string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists. FINTRACK_DB overrides the
// default store location under the user data directory.
func Load() *Config {
	// Missing .env is fine; the environment alone is a valid source.
	_ = godotenv.Load()

	return &Config{
		DBPath: getEnv("FINTRACK_DB", defaultDBPath()),
	}
}

func defaultDBPath() string {
	path, err := xdg.DataFile("fintrack/finance.db")
	if err != nil {
		return "finance.db"
	}
	return path
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
