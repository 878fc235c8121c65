package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. The core services take
// this struct at construction time; nothing below reads the environment after
// Load returns.
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Search     SearchConfig
	Scraper    ScraperConfig
	Cache      CacheConfig
	Metrics    MetricsConfig
}

// PostgreSQLConfig holds registry database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes priority
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Table              string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds matching configuration
type SearchConfig struct {
	RowCap          int     // per-query row window, performance safeguard only
	MaxResults      int     // cap on the deduplicated result list
	ZoneStrategy    bool    // enable the zone-anchored strategy
	BandHigh        float64 // score above this is a high-strength match
	BandMedium      float64 // score above this (up to BandHigh) is medium
	MinPhraseLength int
}

// ScraperConfig holds listing-fetch configuration
type ScraperConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// CacheConfig holds the optional Redis lookup cache configuration
type CacheConfig struct {
	RedisAddr string // empty disables caching
	TTL       time.Duration
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "dld_units"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Table:              getEnv("PG_TABLE", "units"),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Search: SearchConfig{
			RowCap:          getEnvAsInt("SEARCH_ROW_CAP", 200),
			MaxResults:      getEnvAsInt("SEARCH_MAX_RESULTS", 20),
			ZoneStrategy:    getEnvAsBool("SEARCH_ZONE_STRATEGY", true),
			BandHigh:        getEnvAsFloat("SCORE_BAND_HIGH", 50),
			BandMedium:      getEnvAsFloat("SCORE_BAND_MEDIUM", 25),
			MinPhraseLength: getEnvAsInt("SEARCH_MIN_PHRASE_LENGTH", 4),
		},
		Scraper: ScraperConfig{
			Timeout:   time.Duration(getEnvAsInt("SCRAPER_TIMEOUT_SECONDS", 20)) * time.Second,
			UserAgent: getEnv("SCRAPER_USER_AGENT", ""),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 30)) * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if cfg.Search.BandMedium >= cfg.Search.BandHigh {
		return nil, fmt.Errorf("SCORE_BAND_MEDIUM (%.1f) must be below SCORE_BAND_HIGH (%.1f)",
			cfg.Search.BandMedium, cfg.Search.BandHigh)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns the registry connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
