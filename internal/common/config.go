package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pricing  PricingConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds quote-archive configuration. The archive is disabled
// when both DSN and SQLitePath are empty.
type DatabaseConfig struct {
	DSN             string
	SQLitePath      string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP-related configuration
type ServerConfig struct {
	HTTPAddr       string
	AllowedOrigins []string
	MaxUploadMB    int64
	RequestTimeout time.Duration
}

// PricingConfig holds price-sheet configuration
type PricingConfig struct {
	PriceSheetPath        string
	DefaultDurationMonths int
}

// WorkerConfig holds batch/watch worker configuration
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	Debounce       time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real env vars win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			SQLitePath:      getEnv("SQLITE_PATH", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			MaxUploadMB:    int64(getEnvAsInt("MAX_UPLOAD_MB", 20)),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Pricing: PricingConfig{
			PriceSheetPath:        getEnv("PRICE_SHEET_PATH", ""),
			DefaultDurationMonths: getEnvAsInt("DEFAULT_STORAGE_MONTHS", 1),
		},
		Worker: WorkerConfig{
			Workers:        getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", time.Minute),
			Debounce:       getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Pricing.DefaultDurationMonths <= 0 {
		return NewAppError("CONFIG_ERROR", "DEFAULT_STORAGE_MONTHS must be positive", ErrInvalidInput)
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	if c.Worker.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}

// ArchiveEnabled reports whether a quote archive backend is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Database.DSN != "" || c.Database.SQLitePath != ""
}

// LoadPriceTable returns the default price sheet, with YAML overrides
// applied when PRICE_SHEET_PATH is set.
func (c *Config) LoadPriceTable() (*pricing.Table, error) {
	base := pricing.DefaultTable()
	if c.Pricing.PriceSheetPath == "" {
		return base, nil
	}
	table, err := pricing.LoadOverrides(c.Pricing.PriceSheetPath, base)
	if err != nil {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("price sheet %s", c.Pricing.PriceSheetPath), err)
	}
	return table, nil
}
