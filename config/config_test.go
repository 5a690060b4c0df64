package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5000",
			BaseURL:        "http://localhost:5000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{URL: "postgres://localhost/test"},
		Auth: AuthConfig{
			JWTSecret:       "secret",
			SessionTTLHours: 24,
		},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production", GinMode: "release"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing database URL",
			mutate:      func(c *Config) { c.Database.URL = "" },
			expectError: true,
			errorMsg:    "DATABASE_URL is required",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.Auth.JWTSecret = "" },
			expectError: true,
			errorMsg:    "JWT_SECRET is required",
		},
		{
			name:        "non-positive session TTL",
			mutate:      func(c *Config) { c.Auth.SessionTTLHours = 0 },
			expectError: true,
			errorMsg:    "SESSION_TTL_HOURS must be positive",
		},
		{
			name:        "missing CORS origins",
			mutate:      func(c *Config) { c.Server.AllowedOrigins = nil },
			expectError: true,
			errorMsg:    "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "profiling enabled without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
				c.Profiling.Endpoint = ""
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	os.Clearenv()

	// Set only required fields
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24, cfg.Auth.SessionTTLHours)
	assert.Equal(t, 600, cfg.Cache.CatalogTTLSeconds)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Clearenv()

	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("PORT", "9000")
	os.Setenv("ALLOWED_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	os.Setenv("CATALOG_CACHE_TTL", "120")
	os.Setenv("UPLOAD_STAGING_DIR", "/tmp/staging")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 120, cfg.Cache.CatalogTTLSeconds)
	assert.Equal(t, "/tmp/staging", cfg.Upload.StagingDir)
}
