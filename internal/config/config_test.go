//go:build !integration

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"spodown-client/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults over a minimal file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  base_url: http://localhost:5000\n")

		cfg, err := config.LoadConfig(path, false)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Polling.Interval != time.Second {
			t.Errorf("interval default: %v", cfg.Polling.Interval)
		}
		if cfg.Polling.MaxPollFailures != 5 {
			t.Errorf("failure budget default: %d", cfg.Polling.MaxPollFailures)
		}
		if cfg.Polling.UnknownStrikes != 3 {
			t.Errorf("unknown strikes default: %d", cfg.Polling.UnknownStrikes)
		}
		if cfg.Polling.MaxConcurrentJobs != 2 {
			t.Errorf("concurrent jobs default: %d", cfg.Polling.MaxConcurrentJobs)
		}
		if cfg.Chat.Period != 3*time.Second {
			t.Errorf("chat period default: %v", cfg.Chat.Period)
		}
		if cfg.Server.Timeout != 15*time.Second {
			t.Errorf("server timeout default: %v", cfg.Server.Timeout)
		}
	})

	t.Run("should keep explicit values", func(t *testing.T) {
		path := writeConfig(t, `
server:
  base_url: http://localhost:5000
  timeout: 5s
polling:
  interval: 500ms
  max_concurrent_jobs: 4
chat:
  enabled: true
  period: 10s
`)
		cfg, err := config.LoadConfig(path, true)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Polling.Interval != 500*time.Millisecond {
			t.Errorf("interval: %v", cfg.Polling.Interval)
		}
		if cfg.Polling.MaxConcurrentJobs != 4 {
			t.Errorf("concurrent jobs: %d", cfg.Polling.MaxConcurrentJobs)
		}
		if !cfg.Chat.Enabled || cfg.Chat.Period != 10*time.Second {
			t.Errorf("chat: %+v", cfg.Chat)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag must pass through")
		}
	})

	t.Run("should require the server base url", func(t *testing.T) {
		path := writeConfig(t, "polling:\n  interval: 1s\n")
		if _, err := config.LoadConfig(path, false); err == nil {
			t.Error("expected rejection without server.base_url")
		}
	})

	t.Run("should require an api key when the status server is enabled", func(t *testing.T) {
		path := writeConfig(t, `
server:
  base_url: http://localhost:5000
status:
  port: 9090
`)
		if _, err := config.LoadConfig(path, false); err == nil {
			t.Error("expected rejection without status.api_key")
		}
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false); err == nil {
			t.Error("expected a read error")
		}
	})
}
