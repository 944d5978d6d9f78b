package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/trailhub"
	ConfigFileName    = "trailhub.yml"
)

// ValidStores is the list of valid store backends.
var ValidStores = []string{"datastore", "memory"}

// ValidVerifiers is the list of valid token verifier modes.
var ValidVerifiers = []string{"google", "local"}

// Config holds all trailhub configuration settings.
type Config struct {
	// BindAddress is the address the HTTP server listens on
	BindAddress string `yaml:"bind_address"`

	// Port is the HTTP server port
	Port string `yaml:"port"`

	// BaseURL is the absolute URL prefix used in self links
	BaseURL string `yaml:"base_url"`

	// PageSize overrides the fixed page size for list endpoints
	PageSize int `yaml:"page_size"`

	// Store selects the entity store backend: datastore or memory
	Store string `yaml:"store"`

	// Project is the GCP project id for the datastore backend
	Project string `yaml:"project"`

	// Verifier selects the token verifier: google or local
	Verifier string `yaml:"verifier"`

	// LocalSecret is the HMAC secret for the local verifier
	LocalSecret string `yaml:"local_secret"`

	// OAuthClientID is the OAuth client id (also the ID token audience)
	OAuthClientID string `yaml:"oauth_client_id"`

	// OAuthClientSecret is the OAuth client secret
	OAuthClientSecret string `yaml:"oauth_client_secret"`

	// OAuthRedirectURL is the registered OAuth callback URL
	OAuthRedirectURL string `yaml:"oauth_redirect_url"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Port:        "8080",
		BaseURL:     "http://localhost:8080",
		PageSize:    5,
		Store:       "datastore",
		Verifier:    "google",
		sources:     make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("TRAILHUB_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "base_url", "page_size", "store", "project",
		"verifier", "local_secret", "oauth_client_id", "oauth_client_secret",
		"oauth_redirect_url",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	set := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = "file"
		}
	}
	set("bind_address", &c.BindAddress, file.BindAddress)
	set("port", &c.Port, file.Port)
	set("base_url", &c.BaseURL, file.BaseURL)
	set("store", &c.Store, file.Store)
	set("project", &c.Project, file.Project)
	set("verifier", &c.Verifier, file.Verifier)
	set("local_secret", &c.LocalSecret, file.LocalSecret)
	set("oauth_client_id", &c.OAuthClientID, file.OAuthClientID)
	set("oauth_client_secret", &c.OAuthClientSecret, file.OAuthClientSecret)
	set("oauth_redirect_url", &c.OAuthRedirectURL, file.OAuthRedirectURL)
	if file.PageSize != 0 {
		c.PageSize = file.PageSize
		c.sources["page_size"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	set := func(name, envVar string, dst *string) {
		if v := os.Getenv(envVar); v != "" {
			*dst = v
			c.sources[name] = "environment"
		}
	}
	set("bind_address", "TRAILHUB_BIND_ADDRESS", &c.BindAddress)
	set("port", "TRAILHUB_PORT", &c.Port)
	set("base_url", "TRAILHUB_BASE_URL", &c.BaseURL)
	set("store", "TRAILHUB_STORE", &c.Store)
	set("project", "TRAILHUB_PROJECT", &c.Project)
	set("verifier", "TRAILHUB_VERIFIER", &c.Verifier)
	set("local_secret", "TRAILHUB_LOCAL_SECRET", &c.LocalSecret)
	set("oauth_client_id", "TRAILHUB_OAUTH_CLIENT_ID", &c.OAuthClientID)
	set("oauth_client_secret", "TRAILHUB_OAUTH_CLIENT_SECRET", &c.OAuthClientSecret)
	set("oauth_redirect_url", "TRAILHUB_OAUTH_REDIRECT_URL", &c.OAuthRedirectURL)

	if v := os.Getenv("TRAILHUB_PAGE_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.PageSize = i
			c.sources["page_size"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidStores, c.Store) {
		return fmt.Errorf("invalid store backend: %s", c.Store)
	}
	if !contains(ValidVerifiers, c.Verifier) {
		return fmt.Errorf("invalid verifier mode: %s", c.Verifier)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.Store == "datastore" && c.Project == "" {
		return fmt.Errorf("project is required for the datastore backend")
	}
	if c.Verifier == "local" && c.LocalSecret == "" {
		return fmt.Errorf("local_secret is required for the local verifier")
	}
	if strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("base_url must not end with a slash: %s", c.BaseURL)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
