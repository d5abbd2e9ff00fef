package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Batch    BatchConfig    `yaml:"batch"`
	Parser   ParserConfig   `yaml:"parser"`
	Commerce CommerceConfig `yaml:"commerce"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	SQLitePath       string        `yaml:"sqlite_path"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// BatchConfig holds directory batch settings
type BatchConfig struct {
	Workers int `yaml:"workers"`
	Limit   int `yaml:"limit"` // 0 = all documents
}

// ParserConfig holds extraction heuristics that vary per issuer
type ParserConfig struct {
	// NoiseMarkers are substrings that disqualify a line from the client block
	// (tax ids, the issuer's own name).
	NoiseMarkers []string `yaml:"noise_markers"`
}

// CommerceConfig holds the shop API connection settings
type CommerceConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Username    string        `yaml:"username"`
	AppPassword string        `yaml:"app_password"`
	PerPage     int           `yaml:"per_page"`
	RPS         float64       `yaml:"rps"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 4),
			Limit:   getEnvAsInt("BATCH_LIMIT", 0),
		},
		Parser: ParserConfig{
			NoiseMarkers: getEnvAsList("PARSER_NOISE_MARKERS", []string{"SIRET", "RAPIDO"}),
		},
		Commerce: CommerceConfig{
			BaseURL:     getEnv("COMMERCE_URL", ""),
			Username:    getEnv("COMMERCE_USERNAME", ""),
			AppPassword: getEnv("COMMERCE_APP_PASSWORD", ""),
			PerPage:     getEnvAsInt("COMMERCE_PER_PAGE", 100),
			RPS:         getEnvAsFloat64("COMMERCE_RPS", 5),
			Timeout:     getEnvAsDuration("COMMERCE_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// LoadConfigFile loads the environment configuration and overlays the YAML file at path.
// Keys present in the file win over the environment. An empty path returns LoadConfig().
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError(CodeConfig, "read config file", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("decode %s", path), err)
	}
	return cfg, nil
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// comma separated, blanks dropped
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
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("batch.workers", c.Batch.Workers, Positive).
		Field("commerce.base_url", c.Commerce.BaseURL, HTTPURL).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error"))
	if c.Commerce.BaseURL != "" {
		v.Field("commerce.per_page", c.Commerce.PerPage, Positive).
			Field("commerce.rps", c.Commerce.RPS, Positive)
	}
	if c.Batch.Limit < 0 {
		v.Field("batch.limit", c.Batch.Limit, Positive)
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// ValidateDatabase checks that a persistence target is configured.
func (c *Config) ValidateDatabase() error {
	if c.Database.DSN == "" && c.Database.SQLitePath == "" {
		return NewAppError(CodeConfig, "DB_URL or SQLITE_PATH is required", ErrInvalidInput)
	}
	return nil
}
