package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`server:
  port: "9090"
postgres:
  url: postgres://file
catalog:
  ttl: 30s
auth:
  jwt_secret: from-file
log:
  env: production
  level: info
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Postgres.URL != "postgres://file" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "from-file" || cfg.Log.Env != "production" {
		t.Fatalf("unexpected auth/log %+v", cfg)
	}
	if got := TTLDuration(cfg.Catalog.TTL, time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s ttl, got %v", got)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.URL != "postgres://env" || cfg.Redis.Addr != "localhost:6379" || cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [oops"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Minute},
		{"5m", 5 * time.Minute},
		{"bogus", time.Minute},
	}
	for _, tc := range cases {
		if got := TTLDuration(tc.raw, time.Minute); got != tc.want {
			t.Fatalf("TTLDuration(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
