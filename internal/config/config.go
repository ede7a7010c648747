package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultPort = 4000

// Config is read from the environment. Outside Docker a .env file is loaded
// first, without overriding variables that are already set.
type Config struct {
	Port            int
	FirebaseConfig  string // path to the service account JSON
	SaveEnvironment string // local, dev or prod
	StorageBucket   string
	FrontendURL     string
	AuthEnabled     bool
	LogLevel        string
}

// LoadDotEnv loads .env unless running inside a Docker container.
func LoadDotEnv() error {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            defaultPort,
		FirebaseConfig:  strings.TrimSpace(os.Getenv("FIREBASE_CONFIG")),
		SaveEnvironment: strings.ToLower(strings.TrimSpace(os.Getenv("SAVE_ENVIRONMENT"))),
		StorageBucket:   strings.TrimSpace(os.Getenv("STORAGE_BUCKET")),
		FrontendURL:     strings.TrimSpace(os.Getenv("FRONTEND_URL")),
		AuthEnabled:     true,
		LogLevel:        strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("PORT must be a valid port number, got %q", v)
		}
		cfg.Port = port
	}

	if v := strings.TrimSpace(os.Getenv("AUTH_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AUTH_ENABLED must be true or false, got %q", v)
		}
		cfg.AuthEnabled = enabled
	}

	if cfg.FirebaseConfig == "" {
		return nil, fmt.Errorf("FIREBASE_CONFIG environment variable is required")
	}

	switch cfg.SaveEnvironment {
	case "", "local", "dev", "prod":
	default:
		return nil, fmt.Errorf("SAVE_ENVIRONMENT must be one of local, dev or prod, got %q", cfg.SaveEnvironment)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn or error, got %q", cfg.LogLevel)
	}

	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "*"
	}

	if cfg.StorageBucket == "" {
		cfg.StorageBucket = defaultBucket(cfg.SaveEnvironment)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func defaultBucket(env string) string {
	switch env {
	case "local", "dev":
		return "sikad-gg-dev.firebasestorage.app"
	case "prod":
		return "sikad-gg.firebasestorage.app"
	}
	return ""
}
