package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Upload   UploadConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// UpstreamConfig holds connection settings for the program backend that owns
// all data and business rules.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// UploadConfig holds limits for the bulk-upload endpoints.
type UploadConfig struct {
	MaxBytes int64
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Timeout returns the upstream request timeout as a duration.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:9000")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	v.SetDefault("UPLOAD_MAX_BYTES", 3*1024*1024)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        v.GetString("UPSTREAM_BASE_URL"),
			TimeoutSeconds: v.GetInt("UPSTREAM_TIMEOUT_SECONDS"),
		},
		Upload: UploadConfig{
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate upstream config
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if !strings.HasPrefix(c.Upstream.BaseURL, "http://") && !strings.HasPrefix(c.Upstream.BaseURL, "https://") {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an http(s) URL")
	}
	if c.Upstream.TimeoutSeconds < 1 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be at least 1")
	}

	// Validate upload config
	if c.Upload.MaxBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be at least 1")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
