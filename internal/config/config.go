// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds storage settings. The default store is a sqlite file
// under a fixed per-user directory so state survives restarts; DATABASE_DSN
// switches to postgres without touching any service code.
type DatabaseConfig struct {
	// DSN, when set, is a postgres connection string (URL or key=value form).
	DSN string
	// DataDir is where the sqlite file lives when DSN is empty.
	DataDir string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	Seed       bool
}

// SQLitePath returns the path of the sqlite database file.
func (d DatabaseConfig) SQLitePath() string {
	return filepath.Join(d.DataDir, "companion.db")
}

// Load reads configuration from environment variables with local-dev defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			DSN:     getEnv("DATABASE_DSN", ""),
			DataDir: getEnv("DATA_DIR", defaultDataDir()),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
			Seed:       getEnvBool("DB_SEED", true),
		},
	}
}

// defaultDataDir resolves the per-user data directory, falling back to the
// working directory when the OS gives us nothing.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "companion")
	}
	return "data"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
