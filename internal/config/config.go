// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration. All state beyond this lives in
// the relational store.
type Config struct {
	// PostgresDSN is the connection string for the ledger database.
	PostgresDSN string

	// DBSchema is the search_path schema set once per connection.
	DBSchema string

	// ListenAddr is the HTTP listen address for the API and /metrics.
	ListenAddr string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string

	// MigrateOnStart applies embedded migrations before serving.
	MigrateOnStart bool
}

// Load reads configuration from the environment, after loading a .env file
// when one is present in the working directory.
func Load() *Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return &Config{
		PostgresDSN:    getEnv("TJ_POSTGRES_DSN", ""),
		DBSchema:       getEnv("TJ_DB_SCHEMA", "tj"),
		ListenAddr:     getEnv("TJ_LISTEN_ADDR", ":8080"),
		LogLevel:       getEnv("TJ_LOG_LEVEL", "info"),
		MigrateOnStart: getBoolEnv("TJ_MIGRATE_ON_START", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
