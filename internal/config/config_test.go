package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvKeyFile, EnvCredentials, EnvEndpoint, EnvPubsubEndpoint, EnvPageSize, EnvRetries, EnvAuthMode} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()

	// No config file
	config, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load missing config: %v", err)
	}
	if config.PageSize != 50 || config.Endpoint != DefaultEndpoint {
		t.Errorf("Expected defaults, got %+v", config)
	}

	// Valid config file
	configContent := `keyFile: /secrets/key.json
authMode: self-signed-jwt
accountId: "12345678"
pageSize: 20
retries: 3
timeout: 30s
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err = LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.KeyFile != "/secrets/key.json" {
		t.Errorf("Expected key file /secrets/key.json, got %s", config.KeyFile)
	}
	if config.AuthMode != "self-signed-jwt" {
		t.Errorf("Expected self-signed-jwt, got %s", config.AuthMode)
	}
	if config.AccountID != "12345678" {
		t.Errorf("Expected account 12345678, got %s", config.AccountID)
	}
	if config.PageSize != 20 || config.Retries != 3 {
		t.Errorf("Expected pageSize 20 retries 3, got %d %d", config.PageSize, config.Retries)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", config.Timeout)
	}
	if config.Endpoint != DefaultEndpoint {
		t.Errorf("Expected default endpoint to survive, got %s", config.Endpoint)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	// Broken YAML
	if err := os.WriteFile(configPath, []byte("pageSize: [1"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfig(configPath); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"page size too large", func(c *Config) { c.PageSize = 51 }, "PageSize"},
		{"page size zero", func(c *Config) { c.PageSize = 0 }, "PageSize"},
		{"negative retries", func(c *Config) { c.Retries = -1 }, "Retries"},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "basic" }, "AuthMode"},
		{"bad endpoint", func(c *Config) { c.Endpoint = "not a url" }, "Endpoint"},
		{"non numeric account", func(c *Config) { c.AccountID = "abc" }, "AccountID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)

	t.Run("overrides", func(t *testing.T) {
		t.Setenv(EnvCredentials, "/adc.json")
		t.Setenv(EnvEndpoint, "http://localhost:8085/v1/")
		t.Setenv(EnvPubsubEndpoint, "localhost:8681")
		t.Setenv(EnvPageSize, "10")
		t.Setenv(EnvRetries, "2")
		t.Setenv(EnvAuthMode, "none")

		c := DefaultConfig()
		if err := c.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		if c.KeyFile != "/adc.json" {
			t.Errorf("expected key file from %s, got %s", EnvCredentials, c.KeyFile)
		}
		if c.Endpoint != "http://localhost:8085/v1/" || c.PubsubEndpoint != "localhost:8681" {
			t.Errorf("unexpected endpoints: %s %s", c.Endpoint, c.PubsubEndpoint)
		}
		if c.PageSize != 10 || c.Retries != 2 || c.AuthMode != "none" {
			t.Errorf("unexpected values: %+v", c)
		}
	})

	t.Run("key file precedence", func(t *testing.T) {
		t.Setenv(EnvKeyFile, "/rtb.json")
		t.Setenv(EnvCredentials, "/adc.json")

		c := DefaultConfig()
		c.KeyFile = "/from-file.json"
		if err := c.ApplyEnv(); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		if c.KeyFile != "/rtb.json" {
			t.Errorf("expected %s to win, got %s", EnvKeyFile, c.KeyFile)
		}
	})

	t.Run("bad page size", func(t *testing.T) {
		t.Setenv(EnvPageSize, "lots")
		if err := DefaultConfig().ApplyEnv(); err == nil {
			t.Error("expected error for non numeric page size")
		}
	})
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("pageSize: 25\nkeyFile: /from-file.json\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(EnvRetries, "4")

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.PageSize != 25 || config.Retries != 4 || config.KeyFile != "/from-file.json" {
		t.Errorf("unexpected config: %+v", config)
	}

	if _, err := Load(filepath.Join(tmpDir, "nope.yaml")); err == nil {
		t.Error("expected error for an explicit missing config file")
	}

	t.Setenv(EnvConfig, configPath)
	if got := DefaultPath(); got != configPath {
		t.Errorf("DefaultPath() = %s, want %s", got, configPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	envPath := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envPath, []byte("RTB_PAGE_SIZE=7\nRTB_RETRIES=1\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv skips variables that are present at all, even when empty
	os.Unsetenv(EnvPageSize)
	// Already set variables win over the file
	t.Setenv(EnvRetries, "3")

	if err := LoadDotEnv(envPath, filepath.Join(tmpDir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv(EnvPageSize); got != "7" {
		t.Errorf("expected RTB_PAGE_SIZE=7, got %q", got)
	}
	if got := os.Getenv(EnvRetries); got != "3" {
		t.Errorf("expected RTB_RETRIES to stay 3, got %q", got)
	}
}
