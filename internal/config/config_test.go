package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddress() != ":8090" {
		t.Fatalf("unexpected address: %s", cfg.HTTPAddress())
	}
	if cfg.BackendTimeout() != 10*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.BackendTimeout())
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval())
	}
	if cfg.ReconnectDelay() != 3*time.Second {
		t.Fatalf("unexpected reconnect delay: %s", cfg.ReconnectDelay())
	}
	if cfg.TileWatchdog() != 4*time.Second {
		t.Fatalf("unexpected tile watchdog: %s", cfg.TileWatchdog())
	}
}

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without backend url")
	}
}

func TestChannelURLDerivesWebsocketScheme(t *testing.T) {
	cases := []struct {
		backend string
		want    string
	}{
		{"http://backend:8000", "ws://backend:8000/ws"},
		{"https://backend.example.com", "wss://backend.example.com/ws"},
		{"ws://backend:8000", "ws://backend:8000/ws"},
	}

	for _, tc := range cases {
		cfg := &Config{Backend: BackendConfig{URL: tc.backend}}
		got, err := cfg.ChannelURL()
		if err != nil {
			t.Fatalf("channel url for %s: %v", tc.backend, err)
		}
		if got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestChannelURLCustomPath(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{URL: "http://backend:8000", ChannelPath: "events"}}
	got, err := cfg.ChannelURL()
	if err != nil {
		t.Fatalf("channel url: %v", err)
	}
	if got != "ws://backend:8000/events" {
		t.Fatalf("unexpected channel url: %s", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:8000")
	t.Setenv("CONSOLE_HTTP_PORT", "9000")
	t.Setenv("CONSOLE_RECONNECT_SECONDS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != ":9000" {
		t.Fatalf("unexpected address: %s", cfg.HTTPAddress())
	}
	if cfg.ReconnectDelay() != 7*time.Second {
		t.Fatalf("unexpected reconnect delay: %s", cfg.ReconnectDelay())
	}
}

func TestConfigFileWithEnvPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	yaml := `
backend:
  url: http://file-backend:8000
console:
  port: "8100"
refresh:
  pollSeconds: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CONSOLE_HTTP_PORT", "8200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.URL != "http://file-backend:8000" {
		t.Fatalf("expected file value for backend url, got %s", cfg.Backend.URL)
	}
	// Environment wins over the file.
	if cfg.Console.Port != "8200" {
		t.Fatalf("expected env override for port, got %s", cfg.Console.Port)
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Fatalf("expected file poll interval, got %s", cfg.PollInterval())
	}
}

func TestAuthRequiresPasswordHash(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:8000")
	t.Setenv("CONSOLE_AUTH_SECRET", "super-secret")
	t.Setenv("CONSOLE_AUTH_PASSWORD_HASH", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for auth secret without password hash")
	}
}
