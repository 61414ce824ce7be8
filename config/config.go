package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	OAuth   OAuthConfig
	Redis   RedisConfig
	App     AppConfig
}

type ServerConfig struct {
	Port string
}

type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   float64
	CacheSize   int
	CacheTTL    time.Duration
	ProbePeriod time.Duration
}

type OAuthConfig struct {
	GithubClientID string
	RedirectURL    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	SessionTTL  time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Backend: BackendConfig{
			BaseURL:     getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
			Timeout:     getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
			RateLimit:   getEnvAsFloat("BACKEND_RATE_LIMIT", 20),
			CacheSize:   getEnvAsInt("BACKEND_CACHE_SIZE", 1024),
			CacheTTL:    getEnvAsDuration("BACKEND_CACHE_TTL", 30*time.Second),
			ProbePeriod: getEnvAsDuration("BACKEND_PROBE_PERIOD", time.Minute),
		},
		OAuth: OAuthConfig{
			GithubClientID: getEnv("GITHUB_CLIENT_ID", ""),
			RedirectURL:    getEnv("GITHUB_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SessionTTL:  getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		},
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

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
