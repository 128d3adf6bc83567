package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// S3 configuration
	S3Bucket string

	// Pagination default for list endpoints
	PageSize int
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets outside CI.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	cfg := &Config{
		ServerPort:    getValue("SERVER_PORT", env),
		ServerHost:    getValue("SERVER_HOST", env),
		DBHost:        getValue("DB_HOST", env),
		DBPort:        getValue("DB_PORT", env),
		DBUser:        getValue("DB_USER", env),
		DBPassword:    getValue("DB_PASSWORD", env),
		DBName:        getValue("DB_NAME", env),
		DBSSLMode:     getValue("DB_SSL_MODE", env),
		RedisHost:     getValue("REDIS_HOST", env),
		RedisPort:     getValue("REDIS_PORT", env),
		RedisPassword: getValue("REDIS_PASSWORD", env),
		RedisURL:      getValue("REDIS_URL", env),
		JWTSecret:     getValue("JWT_SECRET", env),
		S3Bucket:      getValue("S3_BUCKET_NAME", env),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8000"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}

	cfg.RedisDB = 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	cfg.PageSize = 6
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid PAGE_SIZE value %q", v)
		}
		cfg.PageSize = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getValue reads an environment variable, falling back to the matching
// Docker secret (lower-cased name) outside the CI environment.
func getValue(name string, env Environment) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if env == CI {
		return ""
	}
	return readSecret(strings.ToLower(name))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
