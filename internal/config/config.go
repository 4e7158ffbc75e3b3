package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	Port         int
	DatabaseURL  string
	LogLevel     string
	CORSOrigin   string
	RateLimit    RateLimitConfig
	CookieSecure bool
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// Load reads configuration from the environment, after loading .env when one
// exists. PORT and DATABASE_URL are required.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:          strings.ToLower(getEnv("ENV", "development")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		CookieSecure: getBool("COOKIE_SECURE", false),
		RateLimit: RateLimitConfig{
			Max:    getPositiveInt("RATE_LIMIT_TX_MAX", 60),
			Window: time.Duration(getPositiveInt("RATE_LIMIT_TX_WINDOW_SECONDS", 60)) * time.Second,
		},
	}

	rawPort := strings.TrimSpace(os.Getenv("PORT"))
	if rawPort == "" {
		return Config{}, errors.New("PORT is not set")
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", rawPort)
	}
	cfg.Port = port

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}

	return cfg, nil
}

// LoadDatabaseURL is the subset of Load the migration tool needs.
func LoadDatabaseURL() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("load .env: %w", err)
	}
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return "", errors.New("DATABASE_URL is not set")
	}
	return dsn, nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getPositiveInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
