// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aristath/stockdash/internal/clients/objectstore"
	"github.com/aristath/stockdash/internal/domain"
)

// Supported market data providers
const (
	ProviderHTTP   = "http"
	ProviderNative = "native"
)

// DefaultCacheDBPath keeps the provider cache in memory for the lifetime of the process
const DefaultCacheDBPath = "file:stockdash_cache?mode=memory&cache=shared"

// Config holds application configuration
type Config struct {
	Port            int
	LogLevel        string
	DevMode         bool
	Provider        string        // "http" talks to Yahoo directly, "native" uses go-yfinance
	ProviderTimeout time.Duration // HTTP timeout of the provider client
	DefaultSymbol   string        // Symbol shown on first load
	DefaultPeriod   domain.Period
	CacheDBPath     string        // sqlite path or file: URI
	CacheTTL        time.Duration // 0 disables the provider cache
	SessionTTL      time.Duration // Idle sessions older than this are swept
	Export          *ExportConfig
}

// ExportConfig holds the optional object storage settings for archived exports
type ExportConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Retention       time.Duration // 0 keeps archives forever
}

// Enabled reports whether archiving is configured
func (c *ExportConfig) Enabled() bool {
	return c != nil && c.Bucket != ""
}

// ToObjectStoreConfig converts the export settings into the storage client config
func (c *ExportConfig) ToObjectStoreConfig() objectstore.Config {
	return objectstore.Config{
		Endpoint:        c.Endpoint,
		Region:          c.Region,
		Bucket:          c.Bucket,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}

// fileConfig is the YAML layout of STOCKDASH_CONFIG. Durations use Go syntax ("15m").
type fileConfig struct {
	Server struct {
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"log_level"`
		DevMode  bool   `yaml:"dev_mode"`
	} `yaml:"server"`
	Provider struct {
		Name    string `yaml:"name"`
		Timeout string `yaml:"timeout"`
	} `yaml:"provider"`
	Dashboard struct {
		DefaultSymbol string `yaml:"default_symbol"`
		DefaultPeriod string `yaml:"default_period"`
		SessionTTL    string `yaml:"session_ttl"`
	} `yaml:"dashboard"`
	Cache struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"cache"`
	Export struct {
		Bucket          string `yaml:"bucket"`
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		Retention       string `yaml:"retention"`
	} `yaml:"export"`
}

// defaults returns the configuration used when neither file nor environment set a value
func defaults() *Config {
	return &Config{
		Port:            8001,
		LogLevel:        "info",
		Provider:        ProviderHTTP,
		ProviderTimeout: 30 * time.Second,
		DefaultSymbol:   "AAPL",
		DefaultPeriod:   domain.DefaultPeriod,
		CacheDBPath:     DefaultCacheDBPath,
		CacheTTL:        15 * time.Minute,
		SessionTTL:      2 * time.Hour,
		Export:          &ExportConfig{Region: "auto"},
	}
}

// Load reads configuration from the optional YAML file named by STOCKDASH_CONFIG,
// then applies environment variables on top
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return load(os.Getenv("STOCKDASH_CONFIG"))
}

func load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	if fc.Server.Port != 0 {
		c.Port = fc.Server.Port
	}
	setString(&c.LogLevel, fc.Server.LogLevel)
	c.DevMode = c.DevMode || fc.Server.DevMode
	setString(&c.Provider, fc.Provider.Name)
	setString(&c.DefaultSymbol, fc.Dashboard.DefaultSymbol)
	setString(&c.CacheDBPath, fc.Cache.Path)
	if fc.Dashboard.DefaultPeriod != "" {
		c.DefaultPeriod = domain.Period(fc.Dashboard.DefaultPeriod)
	}

	setString(&c.Export.Bucket, fc.Export.Bucket)
	setString(&c.Export.Endpoint, fc.Export.Endpoint)
	setString(&c.Export.Region, fc.Export.Region)
	setString(&c.Export.AccessKeyID, fc.Export.AccessKeyID)
	setString(&c.Export.SecretAccessKey, fc.Export.SecretAccessKey)

	durations := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"provider.timeout", fc.Provider.Timeout, &c.ProviderTimeout},
		{"dashboard.session_ttl", fc.Dashboard.SessionTTL, &c.SessionTTL},
		{"cache.ttl", fc.Cache.TTL, &c.CacheTTL},
		{"export.retention", fc.Export.Retention, &c.Export.Retention},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dest = parsed
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvAsInt("GO_PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DevMode = getEnvAsBool("DEV_MODE", c.DevMode)
	c.Provider = getEnv("PROVIDER", c.Provider)
	c.ProviderTimeout = getEnvAsDuration("PROVIDER_TIMEOUT", c.ProviderTimeout)
	c.DefaultSymbol = getEnv("DEFAULT_SYMBOL", c.DefaultSymbol)
	c.DefaultPeriod = domain.Period(getEnv("DEFAULT_PERIOD", string(c.DefaultPeriod)))
	c.CacheDBPath = getEnv("CACHE_DB_PATH", c.CacheDBPath)
	c.CacheTTL = getEnvAsDuration("CACHE_TTL", c.CacheTTL)
	c.SessionTTL = getEnvAsDuration("SESSION_TTL", c.SessionTTL)

	c.Export.Bucket = getEnv("EXPORT_BUCKET", c.Export.Bucket)
	c.Export.Endpoint = getEnv("EXPORT_ENDPOINT", c.Export.Endpoint)
	c.Export.Region = getEnv("EXPORT_REGION", c.Export.Region)
	c.Export.AccessKeyID = getEnv("EXPORT_ACCESS_KEY_ID", c.Export.AccessKeyID)
	c.Export.SecretAccessKey = getEnv("EXPORT_SECRET_ACCESS_KEY", c.Export.SecretAccessKey)
	c.Export.Retention = getEnvAsDuration("EXPORT_RETENTION", c.Export.Retention)
}

// Validate checks the configuration and normalises the default symbol and period
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider != ProviderHTTP && c.Provider != ProviderNative {
		return fmt.Errorf("unknown provider %q (expected %q or %q)", c.Provider, ProviderHTTP, ProviderNative)
	}

	period, err := domain.ParsePeriod(string(c.DefaultPeriod))
	if err != nil {
		return fmt.Errorf("invalid default period: %w", err)
	}
	c.DefaultPeriod = period
	c.DefaultSymbol = domain.NormalizeSymbol(c.DefaultSymbol)

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Port)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be greater than 0")
	}
	if c.CacheDBPath == "" {
		return fmt.Errorf("cache database path cannot be empty")
	}
	if c.CacheTTL < 0 || c.SessionTTL < 0 || c.Export.Retention < 0 {
		return fmt.Errorf("durations cannot be negative")
	}

	return nil
}

// Helper functions
func setString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
