package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	configSubdir   = "forcectl"
	configFileName = "config.yaml"
)

// Config is the connected app configuration.
type Config struct {
	// ConsumerKey is the connected app's client identifier.
	ConsumerKey string `yaml:"consumer_key"`

	// CallbackURL is the redirect URL registered with the connected app.
	// It must be a loopback address for the interactive flow to work.
	CallbackURL string `yaml:"callback_url"`

	// LoginHost is the authorization host, e.g. login.salesforce.com or
	// test.salesforce.com for sandboxes.
	LoginHost string `yaml:"login_host"`

	// APIVersion selects the REST API version, e.g. v46.0.
	APIVersion string `yaml:"api_version"`

	// Scopes requested during authorization. Include refresh_token for
	// offline access.
	Scopes []string `yaml:"scopes"`

	// CredentialDir overrides where credentials are stored.
	CredentialDir string `yaml:"credential_dir"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		CallbackURL: "http://localhost:1717/callback",
		LoginHost:   "login.salesforce.com",
		APIVersion:  "v46.0",
		Scopes:      []string{"api", "refresh_token"},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, configSubdir, configFileName)
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file is an
// error. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no configuration file found, using defaults", "path", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read configuration from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration from %s: %w", path, err)
	}

	slog.Debug("loaded configuration", "path", path)
	return cfg, nil
}

// Validate checks that the configuration can drive an authorization flow.
func (c Config) Validate() error {
	if c.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required; set it in %s", DefaultPath())
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("callback_url is required")
	}
	return nil
}

// AuthorizationURL returns the authorization endpoint for the login host.
func (c Config) AuthorizationURL() string {
	return "https://" + c.LoginHost + "/services/oauth2/authorize"
}

// TokenURL returns the token endpoint for the login host.
func (c Config) TokenURL() string {
	return "https://" + c.LoginHost + "/services/oauth2/token"
}
