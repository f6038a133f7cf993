package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Config holds the process configuration for every command
 * Values come from a .env file (toml) in the working directory, overridden by the environment
 */
type Config struct {
	Port                   string `mapstructure:"PORT"`
	SettingsFile           string `mapstructure:"SETTINGS_FILE"`
	TemplatesFile          string `mapstructure:"TEMPLATES_FILE"`
	RootURL                string `mapstructure:"ROOT_URL"`
	HistoryBackend         string `mapstructure:"HISTORY_BACKEND"`
	HistoryRetentionHours  int    `mapstructure:"HISTORY_RETENTION_HOURS"`
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int    `mapstructure:"REDIS_DB"`
	PostgresDSN            string `mapstructure:"POSTGRES_DSN"`
	DeliveryTimeoutSeconds int    `mapstructure:"DELIVERY_TIMEOUT_SECONDS"`
	DispatchParallelism    int    `mapstructure:"DISPATCH_PARALLELISM"`
	EventConcurrency       int    `mapstructure:"EVENT_CONCURRENCY"`
	DateFormat             string `mapstructure:"DATE_FORMAT"`
	ProxyHost              string `mapstructure:"PROXY_HOST"`
	ProxyPort              int    `mapstructure:"PROXY_PORT"`
	NoProxy                string `mapstructure:"NO_PROXY"`
	EventStream            string `mapstructure:"EVENT_STREAM"`
	ConsumerGroup          string `mapstructure:"CONSUMER_GROUP"`
	ConsumerName           string `mapstructure:"CONSUMER_NAME"`
}

// History backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var defaults = map[string]any{
	"PORT":                     "8080",
	"SETTINGS_FILE":            "settings.yaml",
	"TEMPLATES_FILE":           "templates.yaml",
	"ROOT_URL":                 "http://localhost:8111",
	"HISTORY_BACKEND":          BackendMemory,
	"HISTORY_RETENTION_HOURS":  0,
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"POSTGRES_DSN":             "",
	"DELIVERY_TIMEOUT_SECONDS": 30,
	"DISPATCH_PARALLELISM":     1,
	"EVENT_CONCURRENCY":        8,
	"DATE_FORMAT":              time.RFC3339,
	"PROXY_HOST":               "",
	"PROXY_PORT":               0,
	"NO_PROXY":                 "",
	"EVENT_STREAM":             "events",
	"CONSUMER_GROUP":           "webhook-notifier",
	"CONSUMER_NAME":            "",
}

// GetConfig reads .env from the working directory and the environment
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads .env from dir, a missing file leaves defaults and environment only
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	switch c.HistoryBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres history backend")
		}
	default:
		return fmt.Errorf("invalid HISTORY_BACKEND: %s", c.HistoryBackend)
	}
	if c.DeliveryTimeoutSeconds <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT_SECONDS must be positive")
	}
	if c.ProxyHost != "" && c.ProxyPort <= 0 {
		return fmt.Errorf("PROXY_PORT is required when PROXY_HOST is set")
	}
	return nil
}

// DeliveryTimeout returns the per request timeout
func (c Config) DeliveryTimeout() time.Duration {
	return time.Duration(c.DeliveryTimeoutSeconds) * time.Second
}

// HistoryRetention returns how long history items are kept, 0 keeps them forever
func (c Config) HistoryRetention() time.Duration {
	return time.Duration(c.HistoryRetentionHours) * time.Hour
}

/* ProxyFor returns the global proxy to use for targetURL
 * No proxy is used when none is configured or the target host ends with a NO_PROXY suffix
 */
func (c Config) ProxyFor(targetURL string) (string, int) {
	if c.ProxyHost == "" {
		return "", 0
	}
	u, err := url.Parse(targetURL)
	if err != nil {
		return "", 0
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range strings.Split(c.NoProxy, ",") {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" && strings.HasSuffix(host, suffix) {
			return "", 0
		}
	}
	return c.ProxyHost, c.ProxyPort
}
