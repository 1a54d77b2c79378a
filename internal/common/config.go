package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	SMTP      SMTPConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir string
	Pdftotext string
}

// SchedulerConfig holds the daily reminder sweep configuration
type SchedulerConfig struct {
	// RunAt is the local wall-clock time ("15:04") at which the daily sweep
	// fires, interpreted in Timezone.
	RunAt    string
	Timezone string
}

// SMTPConfig holds outbound email configuration. Host empty disables email.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Scheduler: SchedulerConfig{
			RunAt:    getEnv("REMINDER_RUN_AT", "06:00"),
			Timezone: getEnv("BUSINESS_TIMEZONE", "UTC"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnvAsInt("SMTP_PORT", 587),
			From: getEnv("SMTP_FROM", "helpdesk@localhost"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", c.Scheduler.RunAt); err != nil {
		return NewAppError("CONFIG_ERROR", "REMINDER_RUN_AT must be HH:MM", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return NewAppError("CONFIG_ERROR", "BUSINESS_TIMEZONE is not a valid IANA zone", ErrInvalidInput)
	}
	return nil
}
