package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendConfig points the console at the training platform API.
type BackendConfig struct {
	URL            string `yaml:"url" env:"BACKEND_URL"`
	ChannelPath    string `yaml:"channelPath" env:"BACKEND_CHANNEL_PATH"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" env:"BACKEND_HTTP_TIMEOUT"`
}

// AuthConfig protects the console's own mutating endpoints.
// When Secret is empty the console runs open, which is the usual
// classroom setup.
type AuthConfig struct {
	Secret          string `yaml:"secret" env:"CONSOLE_AUTH_SECRET"`
	Username        string `yaml:"username" env:"CONSOLE_AUTH_USERNAME"`
	PasswordHash    string `yaml:"passwordHash" env:"CONSOLE_AUTH_PASSWORD_HASH"`
	TokenTTLMinutes int    `yaml:"tokenTtlMinutes" env:"CONSOLE_AUTH_TOKEN_TTL"`
}

// ConsoleConfig covers the locally served operator UI.
type ConsoleConfig struct {
	Port     string     `yaml:"port" env:"CONSOLE_HTTP_PORT"`
	TilesDir string     `yaml:"tilesDir" env:"CONSOLE_TILES_DIR"`
	Auth     AuthConfig `yaml:"auth"`
}

// RefreshConfig tunes the polling and reconnect cadence.
type RefreshConfig struct {
	PollSeconds         int `yaml:"pollSeconds" env:"CONSOLE_POLL_SECONDS"`
	ReconnectSeconds    int `yaml:"reconnectSeconds" env:"CONSOLE_RECONNECT_SECONDS"`
	TileWatchdogSeconds int `yaml:"tileWatchdogSeconds" env:"CONSOLE_TILE_WATCHDOG_SECONDS"`
}

// Config defines console configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Console ConsoleConfig `yaml:"console"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// Load configuration via the shared loader.
func Load() (*Config, error) {
	cfg := &Config{
		Backend: BackendConfig{
			ChannelPath:    "/ws",
			TimeoutSeconds: 10,
		},
		Console: ConsoleConfig{
			Port:     "8090",
			TilesDir: "tiles",
		},
		Refresh: RefreshConfig{
			PollSeconds:         5,
			ReconnectSeconds:    3,
			TileWatchdogSeconds: 4,
		},
	}

	if err := loadInto(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Backend.URL) == "" {
		return nil, errors.New("config: backend url required")
	}
	if _, err := url.Parse(cfg.Backend.URL); err != nil {
		return nil, fmt.Errorf("config: backend url: %w", err)
	}
	if cfg.Console.Auth.Secret != "" && cfg.Console.Auth.PasswordHash == "" {
		return nil, errors.New("config: console auth enabled but password hash missing")
	}
	return cfg, nil
}

// HTTPAddress returns :port style listen address for the console UI.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.Console.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// BackendTimeout returns the HTTP client timeout.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// PollInterval returns the active-panel refresh period.
func (c *Config) PollInterval() time.Duration {
	if c.Refresh.PollSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Refresh.PollSeconds) * time.Second
}

// ReconnectDelay returns the fixed live-channel retry delay.
func (c *Config) ReconnectDelay() time.Duration {
	if c.Refresh.ReconnectSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Refresh.ReconnectSeconds) * time.Second
}

// TileWatchdog returns how long to wait for a first online tile before
// falling back to the offline basemap.
func (c *Config) TileWatchdog() time.Duration {
	if c.Refresh.TileWatchdogSeconds <= 0 {
		return 4 * time.Second
	}
	return time.Duration(c.Refresh.TileWatchdogSeconds) * time.Second
}

// TokenTTL returns the console session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.Console.Auth.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Console.Auth.TokenTTLMinutes) * time.Minute
}

// ChannelURL derives the ws/wss push endpoint from the backend base URL.
func (c *Config) ChannelURL() (string, error) {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return "", fmt.Errorf("config: backend url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("config: unsupported backend scheme %q", u.Scheme)
	}
	path := c.Backend.ChannelPath
	if path == "" {
		path = "/ws"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	return u.String(), nil
}
