package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	StorageBackend   string
	StorageNamespace string
	DataDir          string
	SQLitePath       string
	RedisURL         string
	RedisPass        string
	RedisDB          int
	DatabaseURL      string

	JWTSecret  string
	SessionTTL time.Duration

	CrashTickInterval time.Duration
	RevealDelay       time.Duration
	StaleRoundAge     time.Duration
	RateLimitPerMin   int
	RandomSeed        uint64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		StorageBackend:   getEnv("STORAGE_BACKEND", "file"),
		StorageNamespace: getEnv("STORAGE_NAMESPACE", "vela"),
		DataDir:          getEnv("DATA_DIR", "data"),
		SQLitePath:       getEnv("SQLITE_PATH", "data/vela.db"),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:        getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMin, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CrashTickInterval, err = getDuration("CRASH_TICK_INTERVAL", 50*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RevealDelay, err = getDuration("REVEAL_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.StaleRoundAge, err = getDuration("STALE_ROUND_AGE", 10*time.Minute); err != nil {
		return nil, err
	}
	if v := os.Getenv("RANDOM_SEED"); v != "" {
		if cfg.RandomSeed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid RANDOM_SEED: %w", err)
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "vela-dev-secret"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
