// Package config reads runtime settings from the environment, optionally seeded by a
// .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"georeduce/internal/reduce"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Precision      int
	Reduce         int
	Tolerance      float64
	Strategy       string
	StrictStrategy bool

	HTTPAddr     string
	FetchTimeout time.Duration
	ExportName   string

	Cache      string
	CacheTTL   time.Duration
	RedisAddr  string
	RedisPass  string
	RedisDB    int
	RedisKeyNS string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadDotEnv loads .env if present. A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

func Load() *Config {
	return &Config{
		Precision:      getEnvAsInt("GEOREDUCE_PRECISION", 5),
		Reduce:         getEnvAsInt("GEOREDUCE_REDUCE", 10),
		Tolerance:      getEnvAsFloat("GEOREDUCE_TOLERANCE", 0),
		Strategy:       getEnv("GEOREDUCE_STRATEGY", "mode"),
		StrictStrategy: getEnvAsBool("GEOREDUCE_STRICT_STRATEGY", false),

		HTTPAddr:     getEnv("GEOREDUCE_HTTP_ADDR", ":8080"),
		FetchTimeout: getEnvAsDuration("GEOREDUCE_FETCH_TIMEOUT", 15*time.Second),
		ExportName:   getEnv("GEOREDUCE_EXPORT_NAME", "custom-geojson.json"),

		Cache:      strings.ToLower(getEnv("GEOREDUCE_CACHE", CacheMemory)),
		CacheTTL:   getEnvAsDuration("GEOREDUCE_CACHE_TTL", time.Hour),
		RedisAddr:  getEnv("REDIS_HOST", "127.0.0.1") + ":" + getEnv("REDIS_PORT", "6379"),
		RedisPass:  getEnv("REDIS_PASS", ""),
		RedisDB:    getEnvAsInt("REDIS_DB", 0),
		RedisKeyNS: getEnv("GEOREDUCE_REDIS_PREFIX", "georeduce:doc:"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

// Policy maps StrictStrategy onto the parser policy.
func (c *Config) Policy() reduce.UnknownPolicy {
	if c.StrictStrategy {
		return reduce.RejectUnknown
	}
	return reduce.FallbackToMode
}

// ReductionConfig resolves the strategy name and returns the core configuration.
func (c *Config) ReductionConfig() (reduce.Config, error) {
	s, err := reduce.ParseStrategy(c.Strategy, c.Policy())
	if err != nil {
		return reduce.Config{}, err
	}
	return reduce.Config{
		Precision: c.Precision,
		Reduce:    c.Reduce,
		Tolerance: c.Tolerance,
		Strategy:  s,
	}, nil
}

func (c *Config) Validate() error {
	if c.Precision < 0 {
		return fmt.Errorf("validate `precision`: must not be negative, got %d", c.Precision)
	}
	if c.Precision > 17 {
		return fmt.Errorf("validate `precision`: float64 holds at most 17 significant digits, got %d", c.Precision)
	}
	if c.Reduce < 0 {
		return fmt.Errorf("validate `reduce`: must not be negative, got %d", c.Reduce)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("validate `tolerance`: must not be negative, got %v", c.Tolerance)
	}
	if _, err := reduce.ParseStrategy(c.Strategy, c.Policy()); err != nil {
		return fmt.Errorf("validate `strategy`: %w", err)
	}
	switch c.Cache {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("validate `cache`: unknown backend %q", c.Cache)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("validate `fetch_timeout`: must be positive, got %v", c.FetchTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}
