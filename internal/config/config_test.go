package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
server:
  port: "9090"
redis:
  addr: "localhost:6379"
  ttl: 1h
submission:
  url: "https://example.com/exec"
  timeout: 10s
phone:
  default_region: US
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Submission.URL != "https://example.com/exec" {
		t.Fatalf("unexpected submission url %q", cfg.Submission.URL)
	}
	if cfg.Phone.DefaultRegion != "US" {
		t.Fatalf("unexpected region %q", cfg.Phone.DefaultRegion)
	}
}

func TestDurationFallback(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := Duration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on malformed input, got %v", got)
	}
	if got := Duration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected parsed duration, got %v", got)
	}
}
