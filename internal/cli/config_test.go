package cli

import (
	"testing"
	"time"
)

func clearCLIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LABEL_SCANNER_SERVER", "")
	t.Setenv("LABEL_SCANNER_FORMAT", "")
	t.Setenv("LABEL_SCANNER_QUIET", "")
	t.Setenv("NO_COLOR", "")
	// Keep the real home config out of tests
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ServerURL != "http://localhost:8080" {
		t.Errorf("Expected default server URL 'http://localhost:8080', got '%s'", config.ServerURL)
	}
	if config.Format != "table" {
		t.Errorf("Expected default format 'table', got '%s'", config.Format)
	}
	if config.RequestTimeout != 120*time.Second {
		t.Errorf("Expected default timeout 120s, got %v", config.RequestTimeout)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCLIEnv(t)

	config, err := LoadConfig("", "", false, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.ServerURL != "http://localhost:8080" {
		t.Errorf("Expected server URL 'http://localhost:8080', got '%s'", config.ServerURL)
	}
	if config.Quiet {
		t.Error("Expected quiet to be false")
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	clearCLIEnv(t)
	t.Setenv("LABEL_SCANNER_SERVER", "http://scanner.local:9090")
	t.Setenv("LABEL_SCANNER_FORMAT", "json")
	t.Setenv("LABEL_SCANNER_QUIET", "true")
	t.Setenv("NO_COLOR", "1")

	config, err := LoadConfig("", "", false, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.ServerURL != "http://scanner.local:9090" {
		t.Errorf("Expected server URL from env, got '%s'", config.ServerURL)
	}
	if config.Format != "json" {
		t.Errorf("Expected format 'json', got '%s'", config.Format)
	}
	if !config.Quiet {
		t.Error("Expected quiet to be true")
	}
	if !config.NoColor {
		t.Error("Expected no-color to be true")
	}
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	clearCLIEnv(t)
	t.Setenv("LABEL_SCANNER_SERVER", "http://env.local:9090")
	t.Setenv("LABEL_SCANNER_FORMAT", "json")

	config, err := LoadConfig("http://flag.local:7070", "table", true, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.ServerURL != "http://flag.local:7070" {
		t.Errorf("Expected flag server URL to win, got '%s'", config.ServerURL)
	}
	if config.Format != "table" {
		t.Errorf("Expected flag format to win, got '%s'", config.Format)
	}
	if !config.Quiet || !config.NoColor {
		t.Error("Expected quiet and no-color flags to be applied")
	}
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	clearCLIEnv(t)

	if _, err := LoadConfig("", "yaml", false, false); err == nil {
		t.Error("Expected error for invalid format, got nil")
	}
}

func TestLoadConfig_SavedFile(t *testing.T) {
	clearCLIEnv(t)

	saved := DefaultConfig()
	saved.ServerURL = "http://saved.local:8081"
	saved.Format = "json"
	if err := saved.SaveConfig(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	config, err := LoadConfig("", "", false, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.ServerURL != "http://saved.local:8081" {
		t.Errorf("Expected server URL from file, got '%s'", config.ServerURL)
	}
	if config.Format != "json" {
		t.Errorf("Expected format from file, got '%s'", config.Format)
	}
}
