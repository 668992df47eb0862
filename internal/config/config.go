package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/logging"
)

const (
	DefaultAPIEndpoint = "https://api.salonathome.in/api"
	DefaultStateDir    = "~/.salonathome"
	configFileName     = "config.yaml"
	maxRetriesCeiling  = 5
)

// Config is the client configuration. Precedence, lowest first: defaults,
// YAML file, .env file, process environment, command-line flags.
type Config struct {
	APIEndpoint string         `yaml:"api_endpoint" env:"SAH_API_URL"`
	RefreshPath string         `yaml:"refresh_path" env:"SAH_REFRESH_PATH"`
	Timeout     time.Duration  `yaml:"timeout" env:"SAH_TIMEOUT"`
	MaxRetries  int            `yaml:"max_retries" env:"SAH_MAX_RETRIES"`
	LogLevel    string         `yaml:"log_level" env:"SAH_LOG_LEVEL"`
	StateDir    string         `yaml:"state_dir" env:"SAH_STATE_DIR"`
	Logout      LogoutSettings `yaml:"logout"`

	// Source is the config file that was read, empty when none was.
	Source string `yaml:"-"`
}

// LogoutSettings tunes the session-expiry debounce.
type LogoutSettings struct {
	DispatchDelay time.Duration `yaml:"dispatch_delay" env:"SAH_LOGOUT_DISPATCH_DELAY"`
	ResetWindow   time.Duration `yaml:"reset_window" env:"SAH_LOGOUT_RESET_WINDOW"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	logout := apiclient.DefaultLogoutConfig()
	return &Config{
		APIEndpoint: DefaultAPIEndpoint,
		RefreshPath: apiclient.DefaultRefreshPath,
		Timeout:     apiclient.DefaultTimeout,
		MaxRetries:  apiclient.DefaultMaxRetries,
		LogLevel:    "warn",
		StateDir:    DefaultStateDir,
		Logout: LogoutSettings{
			DispatchDelay: logout.DispatchDelay,
			ResetWindow:   logout.ResetWindow,
		},
	}
}

// Load builds the configuration. configPath may be empty, in which case
// SAH_CONFIG and then <state dir>/config.yaml are tried; a missing default
// file is not an error, a missing explicit one is.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := configPath != ""
	if !explicit {
		configPath = os.Getenv("SAH_CONFIG")
		explicit = configPath != ""
	}
	if !explicit {
		configPath = filepath.Join(ExpandHome(cfg.StateDir), configFileName)
	}

	if err := loadFile(cfg, configPath); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else {
		cfg.Source = configPath
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_endpoint %q must be an absolute http(s) URL", c.APIEndpoint)
	}
	if !strings.HasPrefix(c.RefreshPath, "/") {
		return fmt.Errorf("refresh_path %q must start with /", c.RefreshPath)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 || c.MaxRetries > maxRetriesCeiling {
		return fmt.Errorf("max_retries must be between 0 and %d", maxRetriesCeiling)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Logout.DispatchDelay < 0 {
		return fmt.Errorf("logout.dispatch_delay cannot be negative")
	}
	if c.Logout.ResetWindow <= c.Logout.DispatchDelay {
		return fmt.Errorf("logout.reset_window must be longer than logout.dispatch_delay")
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath is where Save and Load meet when no path is given.
func (c *Config) DefaultPath() string {
	return filepath.Join(ExpandHome(c.StateDir), configFileName)
}

// ClientConfig derives the API client settings.
func (c *Config) ClientConfig() apiclient.Config {
	cc := apiclient.DefaultConfig()
	cc.BaseURL = c.APIEndpoint
	cc.RefreshPath = c.RefreshPath
	cc.Timeout = c.Timeout
	cc.MaxRetries = c.MaxRetries
	return cc
}

// LogoutConfig derives the notifier settings.
func (c *Config) LogoutConfig() apiclient.LogoutConfig {
	return apiclient.LogoutConfig{
		DispatchDelay: c.Logout.DispatchDelay,
		ResetWindow:   c.Logout.ResetWindow,
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
