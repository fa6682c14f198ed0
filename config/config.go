package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

// DatabaseConfig points at the single-file SQLite database.
type DatabaseConfig struct {
	Path string
}

type HTTPConfig struct {
	// CORSOrigin is the allowed origin; empty reflects any origin.
	CORSOrigin         string
	RateLimitPerMinute int
	RateLimitBurst     int
	StaticDir          string
	OpenAPIPath        string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	perMinute := getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120)

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "data/todos.db"),
		},
		HTTP: HTTPConfig{
			CORSOrigin:         os.Getenv("CORS_ORIGIN"),
			RateLimitPerMinute: perMinute,
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", perMinute),
			StaticDir:          getEnv("STATIC_DIR", "public"),
			OpenAPIPath:        getEnv("OPENAPI_PATH", "openapi.json"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if os.Getenv("USE_PRETTY_LOGS") == "1" {
		cfg.App.LogFormat = "text"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}

	if c.HTTP.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.HTTP.RateLimitPerMinute)
	}

	if c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.HTTP.RateLimitBurst)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
