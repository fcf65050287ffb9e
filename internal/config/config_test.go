package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear all environment variables
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Upstream.BaseURL != "http://localhost:9000" {
		t.Errorf("Expected upstream base URL http://localhost:9000, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.TimeoutSeconds != 30 {
		t.Errorf("Expected upstream timeout 30, got %d", cfg.Upstream.TimeoutSeconds)
	}
	if cfg.Upload.MaxBytes != 3*1024*1024 {
		t.Errorf("Expected upload max bytes %d, got %d", 3*1024*1024, cfg.Upload.MaxBytes)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Set all environment variables
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("UPSTREAM_BASE_URL", "https://backend.example.com")
	os.Setenv("UPSTREAM_TIMEOUT_SECONDS", "10")
	os.Setenv("UPLOAD_MAX_BYTES", "1048576")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify all values from environment
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Upstream.BaseURL != "https://backend.example.com" {
		t.Errorf("Expected upstream base URL https://backend.example.com, got %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.TimeoutSeconds != 10 {
		t.Errorf("Expected upstream timeout 10, got %d", cfg.Upstream.TimeoutSeconds)
	}
	if cfg.Upstream.Timeout() != 10*time.Second {
		t.Errorf("Expected timeout duration 10s, got %s", cfg.Upstream.Timeout())
	}
	if cfg.Upload.MaxBytes != 1048576 {
		t.Errorf("Expected upload max bytes 1048576, got %d", cfg.Upload.MaxBytes)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "missing upstream base URL",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "non-http upstream base URL",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "ftp://backend" },
			wantErr: true,
		},
		{
			name:    "zero upstream timeout",
			mutate:  func(c *Config) { c.Upstream.TimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Upload.MaxBytes = 0 },
			wantErr: true,
		},
		{
			name:    "no CORS origins",
			mutate:  func(c *Config) { c.CORS.Origins = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: "8080", Env: "development"},
				Upstream: UpstreamConfig{BaseURL: "http://localhost:9000", TimeoutSeconds: 30},
				Upload:   UploadConfig{MaxBytes: 3 * 1024 * 1024},
				CORS:     CORSConfig{Origins: []string{"http://localhost:3000"}},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty string", "", 0},
		{"single origin", "http://localhost:3000", 1},
		{"multiple origins", "http://a.com,http://b.com,http://c.com", 3},
		{"origins with spaces", " http://a.com , http://b.com ", 2},
		{"trailing comma", "http://a.com,", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != tt.expected {
				t.Errorf("Expected %d origins, got %d", tt.expected, len(result))
			}
		})
	}
}

// clearConfigEnvVars removes every environment variable the loader reads.
func clearConfigEnvVars() {
	vars := []string{
		"PORT", "ENV",
		"UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT_SECONDS",
		"UPLOAD_MAX_BYTES", "CORS_ORIGINS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
