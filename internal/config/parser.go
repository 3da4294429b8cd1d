// Package config contains the fieldctl configuration.
package config

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fieldops/franchise-client/internal/version"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults.
const (
	DefaultBaseURL        = "http://localhost:3000"
	DefaultTimeoutSeconds = 10
	MaxTimeoutSeconds     = 300
)

// ReadConfig reads the configuration from the path
func ReadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c.path = path
	return c, nil
}

// ReadOrDefault is like [ReadConfig] but returns the default config
// bound to path when the file does not exist.
func ReadOrDefault(path string) (*Config, error) {
	c, err := ReadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		c = &Config{}
		if err := c.Default(); err != nil {
			return nil, errors.Wrap(err, "defaulting")
		}
		c.path = path
		return c, nil
	}
	return c, err
}

// ParseConfig returns config from JSON bytes.
func ParseConfig(b []byte) (*Config, error) {
	var c Config

	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}

	if err := c.Default(); err != nil {
		return nil, errors.Wrap(err, "defaulting")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}

	return &c, nil
}

// Config for the fieldctl installation
type Config struct {
	// Private settings
	Comment string `json:"_"`
	Version int64  `json:"_version"`

	BaseURL        string `json:"base_url"`
	Environment    string `json:"environment"`
	TimeoutSeconds int64  `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	DemoToken      string `json:"demo_token,omitempty"`
	StateDir       string `json:"state_dir,omitempty"`

	mutex sync.Mutex
	path  string
}

// Path returns the path the config was read from.
func (c *Config) Path() string {
	return c.path
}

// Write the config file in json to the path
func (c *Config) Write() error {
	c.Lock()
	defer c.Unlock()
	if c.path == "" {
		return errors.New("config file path is empty")
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling config JSON")
	}
	if err := lockedfile.Write(c.path, strings.NewReader(string(configJSON)+"\n"), 0600); err != nil {
		return errors.Wrap(err, "writing config JSON")
	}
	return nil
}

// Lock acquires the write mutex
func (c *Config) Lock() {
	c.mutex.Lock()
}

// Unlock releases the write mutex
func (c *Config) Unlock() {
	c.mutex.Unlock()
}

// Default config settings
func (c *Config) Default() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.UserAgent == "" {
		c.UserAgent = "fieldctl/" + version.Version
	}
	return nil
}

// Validate the config file
func (c *Config) Validate() error {
	URL, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, "base_url")
	}
	if URL.Scheme != "http" && URL.Scheme != "https" {
		return errors.Errorf("base_url: unsupported scheme %q", URL.Scheme)
	}
	if URL.Host == "" {
		return errors.New("base_url: missing host")
	}
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return errors.Errorf("environment: unknown value %q", c.Environment)
	}
	if c.TimeoutSeconds <= 0 || c.TimeoutSeconds > MaxTimeoutSeconds {
		return errors.Errorf("timeout_seconds: must be in (0, %d]", MaxTimeoutSeconds)
	}
	if strings.ContainsAny(c.DemoToken, " \t\r\n") {
		return errors.New("demo_token: must not contain whitespace")
	}
	return nil
}

// IsProduction returns whether this is a production installation. In
// production request diagnostics are disabled.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
