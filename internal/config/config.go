// Package config loads the rtb command settings from an optional YAML file,
// a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"rtbsamples/internal/validate"
)

// Environment variables read by ApplyEnv
const (
	EnvConfig         = "RTB_CONFIG"
	EnvKeyFile        = "RTB_KEY_FILE"
	EnvCredentials    = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvEndpoint       = "RTB_ENDPOINT"
	EnvPubsubEndpoint = "RTB_PUBSUB_ENDPOINT"
	EnvPageSize       = "RTB_PAGE_SIZE"
	EnvRetries        = "RTB_RETRIES"
	EnvAuthMode       = "RTB_AUTH_MODE"
)

// DefaultEndpoint is the Real-time Bidding API root
const DefaultEndpoint = "https://realtimebidding.googleapis.com/"

// Config represents the rtb configuration
type Config struct {
	// KeyFile is the path of the service account JSON key
	KeyFile string `yaml:"keyFile"`

	// AuthMode is oauth, self-signed-jwt or none
	AuthMode string `yaml:"authMode" validate:"omitempty,oneof=oauth self-signed-jwt none"`

	// Endpoint is the API root the client sends requests to
	Endpoint string `yaml:"endpoint" validate:"required,url"`

	// PubsubEndpoint overrides the Pub/Sub host:port
	PubsubEndpoint string `yaml:"pubsubEndpoint"`

	// AccountID is used when a command is run without --account-id
	AccountID string `yaml:"accountId" validate:"omitempty,numeric"`

	// PageSize of list requests, at most 50
	PageSize int64 `yaml:"pageSize" validate:"gte=1,lte=50"`

	// Retries of failed reads, 0 disables retrying
	Retries int `yaml:"retries" validate:"gte=0,lte=10"`

	// Timeout bounds a whole command run
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DefaultConfig returns the settings used when nothing else is configured
func DefaultConfig() *Config {
	return &Config{
		AuthMode: "oauth",
		Endpoint: DefaultEndpoint,
		PageSize: 50,
		Retries:  0,
		Timeout:  60 * time.Second,
	}
}

// DefaultPath returns the config file used when none is given: $RTB_CONFIG,
// then ~/.config/rtb/config.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rtb", "config.yaml")
}

// LoadConfig loads the YAML file at path over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// LoadDotEnv loads variables from the .env files that exist. Variables that
// are already set are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides c with the RTB_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvKeyFile); v != "" {
		c.KeyFile = v
	} else if v := os.Getenv(EnvCredentials); v != "" {
		c.KeyFile = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvPubsubEndpoint); v != "" {
		c.PubsubEndpoint = v
	}
	if v := os.Getenv(EnvAuthMode); v != "" {
		c.AuthMode = v
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	if v := os.Getenv(EnvRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRetries, err)
		}
		c.Retries = n
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads .env, the config file at path (or DefaultPath when empty) and
// the environment, in that order of increasing precedence
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}
