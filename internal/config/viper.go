package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadServerConfigWithViper loads server configuration using Viper
func LoadServerConfigWithViper(v *viper.Viper) (*Config, error) {
	setServerDefaults(v)
	setupServerEnvBinding(v)

	if err := loadConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalServerConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setServerDefaults sets default values for server configuration
func setServerDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "localhost")

	// Database defaults
	v.SetDefault("database.path", "./label-scanner.db")

	// Storage defaults
	v.SetDefault("storage.data_dir", "./data/images")

	// OCR defaults
	v.SetDefault("ocr.language", "eng")

	// Logging defaults
	v.SetDefault("logging.level", "info")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.disabled", false)

	// Development/testing defaults
	v.SetDefault("rate_limit.disabled", false)

	// History retention defaults
	v.SetDefault("history.keep", 100)
	v.SetDefault("history.prune_interval", "1h")
}

// setupServerEnvBinding sets up environment variable binding for server configuration
func setupServerEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix("LABEL_SCANNER")
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server.port":            "SERVER_PORT",
		"server.host":            "SERVER_HOST",
		"database.path":          "DATABASE_PATH",
		"storage.data_dir":       "DATA_DIR",
		"ocr.language":           "OCR_LANGUAGE",
		"logging.level":          "LOGGING_LEVEL",
		"cache.ttl":              "CACHE_TTL",
		"cache.disabled":         "CACHE_DISABLED",
		"rate_limit.disabled":    "RATE_LIMIT_DISABLED",
		"history.keep":           "HISTORY_KEEP",
		"history.prune_interval": "HISTORY_PRUNE_INTERVAL",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, "LABEL_SCANNER_"+envSuffix)
	}
}

// loadConfigFile loads configuration file if it exists
func loadConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.label-scanner")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, only return error if it's not a "not found" error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// unmarshalServerConfig unmarshals Viper configuration into Config struct
func unmarshalServerConfig(v *viper.Viper, config *Config) error {
	config.ServerPort = v.GetString("server.port")
	config.ServerHost = v.GetString("server.host")
	config.DBPath = v.GetString("database.path")
	config.DataDir = v.GetString("storage.data_dir")
	config.OCRLanguage = v.GetString("ocr.language")
	config.LogLevel = v.GetString("logging.level")

	var err error
	config.CacheTTL, err = time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		return fmt.Errorf("invalid cache TTL: %w", err)
	}

	config.PruneInterval, err = time.ParseDuration(v.GetString("history.prune_interval"))
	if err != nil {
		return fmt.Errorf("invalid prune interval: %w", err)
	}

	config.DisableCache = v.GetBool("cache.disabled")
	config.DisableRateLimit = v.GetBool("rate_limit.disabled")
	config.HistoryKeep = v.GetInt("history.keep")

	return nil
}

// LoadServerConfig loads server configuration using a default Viper instance
func LoadServerConfig() (*Config, error) {
	v := viper.New()
	return LoadServerConfigWithViper(v)
}

// LoadServerConfigWithFile loads server configuration from a specific file
func LoadServerConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadServerConfigWithViper(v)
}

// LoadServerConfigWithEnvFile loads server configuration with .env file support
func LoadServerConfigWithEnvFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := LoadEnvFile(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		if err := LoadEnvFile(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	return LoadServerConfigWithViper(v)
}
