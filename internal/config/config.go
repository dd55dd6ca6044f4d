package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Metadata UpstreamConfig
	Backend  UpstreamConfig
	JWT      JWTConfig
	Upload   UploadConfig
}

// UpstreamConfig contains connection parameters for one upstream service.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// JWTConfig contains the RS256 key pair locations used for token signing.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
}

// UploadConfig bounds multipart uploads held in memory before forwarding.
type UploadConfig struct {
	MaxFileSize int64
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Upstream services
	cfg.Metadata.BaseURL = getEnv("METADATA_API_URL", "")
	cfg.Backend.BaseURL = getEnv("BACKEND_API_URL", "")

	var err error
	if cfg.Metadata.Timeout, err = parseDurationEnv("METADATA_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid METADATA_TIMEOUT: %w", err)
	}
	if cfg.Backend.Timeout, err = parseDurationEnv("BACKEND_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}

	// Token signing keys
	cfg.JWT = JWTConfig{
		PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "keys/jwt.key"),
		PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "keys/jwt.key.pub"),
	}

	// Uploads (bytes per file, default 32MB)
	cfg.Upload.MaxFileSize = getEnvInt64("MAX_UPLOAD_SIZE", 32<<20)

	if cfg.Metadata.BaseURL == "" || cfg.Backend.BaseURL == "" {
		return nil, errors.New("upstream configuration incomplete: ensure METADATA_API_URL and BACKEND_API_URL are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt64 returns the value of an environment variable as an int64 or a default if empty/invalid.
func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be > 0")
	}
	return d, nil
}
