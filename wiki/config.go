package wiki

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the public English Wikipedia API endpoint
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

	// DefaultUserAgent identifies the client to the wiki
	DefaultUserAgent = "wikiquery/1.0 (https://github.com/olgasafonova/wikiquery)"

	// DefaultTimeout for API requests
	DefaultTimeout = 30 * time.Second
)

// Config holds MediaWiki connection settings
type Config struct {
	// BaseURL is the wiki API endpoint (e.g., https://fr.wikipedia.org/w/api.php)
	BaseURL string `yaml:"api_url"`

	// UserAgent is sent as the only request header
	UserAgent string `yaml:"user_agent"`

	// Timeout for API requests
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config pointing at English Wikipedia
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// LoadConfig loads configuration from environment variables.
// Unset variables keep their defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file. Environment variables override file values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if u := os.Getenv("WIKI_API_URL"); u != "" {
		c.BaseURL = u
	}
	if ua := os.Getenv("WIKI_USER_AGENT"); ua != "" {
		c.UserAgent = ua
	}
	if t := os.Getenv("WIKI_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid WIKI_TIMEOUT %q: %w", t, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate reports whether the config can be used to build a client
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
