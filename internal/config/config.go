package config

import "os"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           string
	DatabaseURL    string // empty disables the match archive
	RedisURL       string // empty disables the live-state mirror
	AllowedOrigins string
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL and REDIS_URL have no defaults: the server is fully functional
// in memory and only talks to Postgres/Redis when told where they are.
func Load() *Config {
	return &Config{
		Port:           envOrDefault("PORT", "3003"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AllowedOrigins: envOrDefault("ALLOWED_ORIGINS", "*"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
