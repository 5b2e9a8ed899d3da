// Package config handles the XDG configuration directory, the config file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"todoapp/internal/source"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the TOML settings filename.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Source names.
const (
	SourcePlaceholder = "placeholder"
	SourceGoogleTasks = "googletasks"
)

// UI modes for interactive sessions.
const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"
)

// Defaults.
const (
	DefaultEndpoint     = "https://jsonplaceholder.typicode.com/todos"
	DefaultLimit        = source.DefaultLimit
	DefaultFetchTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Source selects the backend for the initial fetch.
	Source string

	// Endpoint is the JSON endpoint of the placeholder source.
	Endpoint string

	// Limit caps the number of fetched items, 1..DefaultLimit.
	Limit int

	// FetchTimeout bounds the initial fetch.
	FetchTimeout time.Duration

	// ReconcileIDs raises the id counter past loaded ids.
	ReconcileIDs bool

	// UI picks the interactive front end.
	UI string
}

// fileConfig mirrors config.toml. Pointers tell unset keys from zero values.
type fileConfig struct {
	Source       *string `toml:"source"`
	Endpoint     *string `toml:"endpoint"`
	Limit        *int    `toml:"limit"`
	FetchTimeout *string `toml:"fetch_timeout"`
	ReconcileIDs *bool   `toml:"reconcile_ids"`
	UI           *string `toml:"ui"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:          dir,
		Source:       SourcePlaceholder,
		Endpoint:     DefaultEndpoint,
		Limit:        DefaultLimit,
		FetchTimeout: DefaultFetchTimeout,
		UI:           UIAuto,
	}, nil
}

// Load builds a Config from defaults, then config.toml in the directory,
// then environment variables. Flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(cfg.FilePath()); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}

	if fc.Source != nil {
		c.Source = *fc.Source
	}
	if fc.Endpoint != nil {
		c.Endpoint = *fc.Endpoint
	}
	if fc.Limit != nil {
		c.Limit = *fc.Limit
	}
	if fc.FetchTimeout != nil {
		d, err := time.ParseDuration(*fc.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout in %s: %w", path, err)
		}
		c.FetchTimeout = d
	}
	if fc.ReconcileIDs != nil {
		c.ReconcileIDs = *fc.ReconcileIDs
	}
	if fc.UI != nil {
		c.UI = *fc.UI
	}
	return nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	if v := getenv("TODO_SOURCE"); v != "" {
		c.Source = v
	}
	if v := getenv("TODO_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := getenv("TODO_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	if v := getenv("TODO_RECONCILE_IDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TODO_RECONCILE_IDS: %w", err)
		}
		c.ReconcileIDs = b
	}
	if v := getenv("TODO_UI"); v != "" {
		c.UI = v
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	switch c.Source {
	case SourcePlaceholder, SourceGoogleTasks:
	default:
		return fmt.Errorf("unknown source: %s", c.Source)
	}

	c.UI = strings.ToLower(strings.TrimSpace(c.UI))
	switch c.UI {
	case UIAuto, UITUI, UIPlain:
	default:
		return fmt.Errorf("unknown ui: %s", c.UI)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}

	// The limit may only lower the cap on the initial fetch.
	if c.Limit < 1 || c.Limit > DefaultLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", DefaultLimit, c.Limit)
	}
	return nil
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
