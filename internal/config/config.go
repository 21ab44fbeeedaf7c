package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	S3       S3Config
	Upload   UploadConfig
	QR       QRConfig
	Events   EventsConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects where the card collection is persisted
type StorageConfig struct {
	Backend        string
	SlotKey        string
	MigrationsPath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// S3Config holds bucket settings for the s3 backend
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // custom endpoint for MinIO
	Prefix   string
}

// UploadConfig holds image upload limits
type UploadConfig struct {
	MaxImageSize int64 // in bytes
}

// QRConfig holds QR rendering defaults
type QRConfig struct {
	Size    int // pixels
	MaxSize int
}

// EventsConfig holds change notification settings (empty URL = disabled)
type EventsConfig struct {
	NATSURL   string
	NATSToken string
	Subject   string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from the environment, after loading a .env file if one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults without validating it
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", BackendMemory),
			SlotKey:        getEnv("STORAGE_SLOT_KEY", "employeeCards"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "card_builder"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		S3: S3Config{
			Bucket:   os.Getenv("S3_BUCKET"),
			Region:   getEnv("S3_REGION", "us-east-1"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			Prefix:   getEnv("S3_PREFIX", "cards/"),
		},
		Upload: UploadConfig{
			MaxImageSize: getInt64Env("MAX_IMAGE_SIZE", 2*1024*1024), // 2MB
		},
		QR: QRConfig{
			Size:    getIntEnv("QR_SIZE", 256),
			MaxSize: getIntEnv("QR_MAX_SIZE", 1024),
		},
		Events: EventsConfig{
			NATSURL:   os.Getenv("NATS_URL"),
			NATSToken: os.Getenv("NATS_TOKEN"),
			Subject:   getEnv("NATS_SUBJECT", "cards"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required for the postgres backend")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, postgres, s3 (got %q)", c.Storage.Backend)
	}
	if c.Storage.SlotKey == "" {
		return fmt.Errorf("STORAGE_SLOT_KEY must not be empty")
	}
	if c.Upload.MaxImageSize <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE must be positive")
	}
	if c.QR.Size <= 0 || c.QR.Size > c.QR.MaxSize {
		return fmt.Errorf("QR_SIZE must be between 1 and %d", c.QR.MaxSize)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
