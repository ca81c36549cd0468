package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL      string        `json:"server_url"`
	Format         string        `json:"format"`
	Quiet          bool          `json:"quiet"`
	NoColor        bool          `json:"no_color"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:8080",
		Format:         "table",
		Quiet:          false,
		NoColor:        false,
		RequestTimeout: 120 * time.Second,
	}
}

// LoadConfig loads configuration from file, environment variables, and CLI flags
func LoadConfig(serverFlag, formatFlag string, quietFlag, noColorFlag bool) (*Config, error) {
	config := DefaultConfig()

	// Config file is optional
	_ = config.loadFromFile()

	config.loadFromEnv()

	// CLI flags have the highest priority
	if serverFlag != "" {
		config.ServerURL = serverFlag
	}
	if formatFlag != "" {
		config.Format = formatFlag
	}
	if quietFlag {
		config.Quiet = true
	}
	if noColorFlag {
		config.NoColor = true
	}

	return config, config.validate()
}

// loadFromFile loads configuration from ~/.label-scanner.json
func (c *Config) loadFromFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".label-scanner.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if serverURL := os.Getenv("LABEL_SCANNER_SERVER"); serverURL != "" {
		c.ServerURL = serverURL
	}
	if format := os.Getenv("LABEL_SCANNER_FORMAT"); format != "" {
		c.Format = format
	}
	if os.Getenv("LABEL_SCANNER_QUIET") == "true" {
		c.Quiet = true
	}
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server URL cannot be empty")
	}

	validFormats := []string{"table", "json"}
	isValidFormat := false
	for _, format := range validFormats {
		if c.Format == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		return fmt.Errorf("invalid format: %s (must be one of: table, json)", c.Format)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 120 * time.Second
	}

	return nil
}

// SaveConfig saves the current configuration to ~/.label-scanner.json
func (c *Config) SaveConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".label-scanner.json")
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
