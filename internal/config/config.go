// Package config loads application configuration from file,
// environment and defaults via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Vendor API configuration
	DataForSEO DataForSEOConfig `mapstructure:"dataforseo"`

	// Audit defaults applied to new tasks
	Audit AuditConfig `mapstructure:"audit"`

	// Cache configuration for vendor GET responses
	Cache CacheConfig `mapstructure:"cache"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataForSEOConfig holds vendor API credentials and client tuning.
type DataForSEOConfig struct {
	Login      string        `mapstructure:"login"`
	Password   string        `mapstructure:"password"`
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	RateLimit  float64       `mapstructure:"rate_limit"` // requests per second
}

// AuditConfig holds the defaults applied to new audit tasks.
type AuditConfig struct {
	MaxPages         int  `mapstructure:"max_pages"`
	EnableJavaScript bool `mapstructure:"enable_javascript"`
	LoadResources    bool `mapstructure:"load_resources"`
	RespectRobotsTxt bool `mapstructure:"respect_robots_txt"`
}

// CacheConfig tunes the vendor response cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.auditsmith")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataforseo.endpoint", "https://api.dataforseo.com")
	v.SetDefault("dataforseo.timeout", "30s")
	v.SetDefault("dataforseo.max_retries", 3)
	v.SetDefault("dataforseo.retry_delay", "2s")
	v.SetDefault("dataforseo.rate_limit", 5)

	v.SetDefault("audit.max_pages", 100)
	v.SetDefault("audit.enable_javascript", false)
	v.SetDefault("audit.load_resources", true)
	v.SetDefault("audit.respect_robots_txt", true)

	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.capacity", 256)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("AUDITSMITH")
	v.AutomaticEnv()

	v.BindEnv("dataforseo.login", "DATAFORSEO_LOGIN")
	v.BindEnv("dataforseo.password", "DATAFORSEO_PASSWORD")
	v.BindEnv("dataforseo.endpoint", "DATAFORSEO_ENDPOINT")
}

// Validate checks the configuration for values the pipeline cannot
// run with.
func (c *Config) Validate() error {
	if c.DataForSEO.Login == "" || c.DataForSEO.Password == "" {
		return fmt.Errorf("dataforseo credentials are required (set DATAFORSEO_LOGIN and DATAFORSEO_PASSWORD)")
	}
	if c.DataForSEO.MaxRetries < 0 {
		return fmt.Errorf("dataforseo.max_retries must not be negative")
	}
	if c.DataForSEO.RateLimit <= 0 {
		return fmt.Errorf("dataforseo.rate_limit must be positive")
	}
	if c.Audit.MaxPages <= 0 {
		return fmt.Errorf("audit.max_pages must be positive")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	return nil
}
