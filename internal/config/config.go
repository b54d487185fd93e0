package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Menu  MenuConfig  `mapstructure:"menu"`
	UI    UIConfig    `mapstructure:"ui"`
	Redis RedisConfig `mapstructure:"redis"`
}

// StoreConfig identifies the storefront on the outbound order message
type StoreConfig struct {
	Name     string `mapstructure:"name"`
	Location string `mapstructure:"location"`
	WhatsApp string `mapstructure:"whatsapp"`
	SiteURL  string `mapstructure:"site_url"`
}

// MenuConfig holds remote menu source and cache policy configuration
type MenuConfig struct {
	Endpoint             string  `mapstructure:"endpoint"`
	Timeout              int     `mapstructure:"timeout"`
	MaxRetries           int     `mapstructure:"max_retries"`
	MaxRequestsPerSecond int     `mapstructure:"max_requests_per_second"`
	CacheTTL             int     `mapstructure:"cache_ttl"`         // seconds
	RefreshThreshold     float64 `mapstructure:"refresh_threshold"` // fraction of the TTL
}

// UIConfig holds quiescence windows for debounced input streams
type UIConfig struct {
	SearchDebounceMs int `mapstructure:"search_debounce_ms"`
	NotesDebounceMs  int `mapstructure:"notes_debounce_ms"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// TTL returns the menu cache freshness window.
func (m MenuConfig) TTL() time.Duration {
	return time.Duration(m.CacheTTL) * time.Second
}

// SearchDebounce returns the search input quiescence window.
func (u UIConfig) SearchDebounce() time.Duration {
	return time.Duration(u.SearchDebounceMs) * time.Millisecond
}

// NotesDebounce returns the notes input quiescence window.
func (u UIConfig) NotesDebounce() time.Duration {
	return time.Duration(u.NotesDebounceMs) * time.Millisecond
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("store.name", "Massimo's Pizza")
	viper.SetDefault("store.location", "Magaluf, Mallorca")
	viper.SetDefault("store.whatsapp", "+34611260259")
	viper.SetDefault("store.site_url", "https://school-1tryout.my.canva.site/welcome-to-massimo-s-pizza/#page-1")

	viper.SetDefault("menu.endpoint", "")
	viper.SetDefault("menu.timeout", 15)
	viper.SetDefault("menu.max_retries", 2)
	viper.SetDefault("menu.max_requests_per_second", 1)
	viper.SetDefault("menu.cache_ttl", 300)
	viper.SetDefault("menu.refresh_threshold", 0.8)

	viper.SetDefault("ui.search_debounce_ms", 300)
	viper.SetDefault("ui.notes_debounce_ms", 500)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
}
