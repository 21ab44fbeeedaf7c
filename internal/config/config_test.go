package config

import (
	"strings"
	"testing"
	"time"
)

var configEnvVars = []string{
	"PORT", "STORAGE_BACKEND", "STORAGE_SLOT_KEY", "DB_HOST", "DB_NAME",
	"S3_BUCKET", "S3_PREFIX", "MAX_IMAGE_SIZE", "QR_SIZE", "QR_MAX_SIZE",
	"NATS_URL", "SERVER_READ_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Expected memory backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.SlotKey != "employeeCards" {
		t.Errorf("Expected slot key employeeCards, got %s", cfg.Storage.SlotKey)
	}
	if cfg.Upload.MaxImageSize != 2*1024*1024 {
		t.Errorf("Expected 2MB image limit, got %d", cfg.Upload.MaxImageSize)
	}
	if cfg.QR.Size != 256 {
		t.Errorf("Expected QR size 256, got %d", cfg.QR.Size)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_IMAGE_SIZE", "1024")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("QR_SIZE", "not-a-number")

	cfg := FromEnv()
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Upload.MaxImageSize != 1024 {
		t.Errorf("Expected 1024, got %d", cfg.Upload.MaxImageSize)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Expected 3s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.QR.Size != 256 {
		t.Errorf("Invalid QR_SIZE should fall back to default, got %d", cfg.QR.Size)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "memory ok", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: "STORAGE_BACKEND"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Backend = BackendS3 }, wantErr: "S3_BUCKET"},
		{name: "s3 with bucket", mutate: func(c *Config) { c.Storage.Backend = BackendS3; c.S3.Bucket = "cards" }},
		{name: "postgres without host", mutate: func(c *Config) { c.Storage.Backend = BackendPostgres; c.Database.Host = "" }, wantErr: "DB_HOST"},
		{name: "empty slot key", mutate: func(c *Config) { c.Storage.SlotKey = "" }, wantErr: "STORAGE_SLOT_KEY"},
		{name: "zero image size", mutate: func(c *Config) { c.Upload.MaxImageSize = 0 }, wantErr: "MAX_IMAGE_SIZE"},
		{name: "qr too large", mutate: func(c *Config) { c.QR.Size = 5000 }, wantErr: "QR_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg := FromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
