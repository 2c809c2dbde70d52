package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SULTAN_CONFIG", "")
	t.Setenv("SULTAN_AUTH_SECRET", "test-secret")
	t.Setenv("SULTAN_ADDR", "")
	t.Setenv("SULTAN_ACCESS_TTL_SECS", "")
	t.Setenv("SULTAN_REFRESH_TTL_DAYS", "")
	t.Setenv("SULTAN_DB_DRIVER", "")
	t.Setenv("SULTAN_DB_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if cfg.AccessTTL() != 900*time.Second {
		t.Fatalf("unexpected access ttl %v", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 30*24*time.Hour {
		t.Fatalf("unexpected refresh ttl %v", cfg.RefreshTTL())
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("unexpected driver %q", cfg.DB.Driver)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SULTAN_CONFIG", "")
	t.Setenv("SULTAN_AUTH_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte("addr: \":9090\"\nauth:\n  secret: file-secret\n  access_ttl_secs: 60\ndb:\n  driver: postgres\n  dsn: postgres://localhost/sultan\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("SULTAN_CONFIG", path)
	t.Setenv("SULTAN_AUTH_SECRET", "env-secret")
	t.Setenv("SULTAN_ADDR", "")
	t.Setenv("SULTAN_ACCESS_TTL_SECS", "")
	t.Setenv("SULTAN_REFRESH_TTL_DAYS", "")
	t.Setenv("SULTAN_DB_DRIVER", "")
	t.Setenv("SULTAN_DB_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Fatalf("env must win over file, got %q", cfg.Auth.Secret)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("file value should apply when env is unset, got %q", cfg.Addr)
	}
	if cfg.AccessTTL() != time.Minute {
		t.Fatalf("unexpected access ttl %v", cfg.AccessTTL())
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("unexpected driver %q", cfg.DB.Driver)
	}
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("SULTAN_CONFIG", "")
	t.Setenv("SULTAN_AUTH_SECRET", "test-secret")
	t.Setenv("SULTAN_DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("SULTAN_CONFIG", "")
	t.Setenv("SULTAN_AUTH_SECRET", "test-secret")
	t.Setenv("SULTAN_DB_DRIVER", "")
	t.Setenv("SULTAN_ACCESS_TTL_SECS", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric ttl")
	}
}
