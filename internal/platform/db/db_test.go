package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
version: "1"
mode: dev
addr: ":9443"
cors_origin: "http://localhost:5173"
database:
  host: 127.0.0.1
  port: 3306
  user: app
  password: pw
  dbname: assetverse
auth:
  jwt_secret: yaml-secret
  token_ttl: 12h
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != "dev" || cfg.Addr != ":9443" {
		t.Errorf("mode/addr = %q/%q", cfg.Mode, cfg.Addr)
	}
	if cfg.DB.Host != "127.0.0.1" || cfg.DB.Port != 3306 || cfg.DB.DBName != "assetverse" {
		t.Errorf("db config = %+v", cfg.DB)
	}
	if cfg.Auth.JWTSecret != "yaml-secret" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if got := cfg.Auth.TokenLifetime(); got != 12*time.Hour {
		t.Errorf("token ttl = %v", got)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: release
database:
  host: db.internal
  port: 3306
  user: app
  password: yaml-pw
  dbname: assetverse
auth:
  jwt_secret: yaml-secret
`)

	t.Setenv("ASSETVERSE_DB_HOST", "10.0.0.5")
	t.Setenv("ASSETVERSE_DB_PORT", "3307")
	t.Setenv("ASSETVERSE_DB_PASSWORD", "env-pw")
	t.Setenv("ASSETVERSE_JWT_SECRET", "env-secret")
	t.Setenv("ASSETVERSE_ADDR", ":8080")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DB.Host != "10.0.0.5" || cfg.DB.Port != 3307 || cfg.DB.Password != "env-pw" {
		t.Errorf("env overrides not applied: %+v", cfg.DB)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
}

func TestLoadConfig_DefaultAddr(t *testing.T) {
	path := writeConfig(t, "mode: dev\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":8443" {
		t.Errorf("addr = %q, want :8443", cfg.Addr)
	}
}

func TestTokenLifetime_Defaults(t *testing.T) {
	cases := []struct {
		ttl  string
		want time.Duration
	}{
		{"", 24 * time.Hour},
		{"garbage", 24 * time.Hour},
		{"-1h", 24 * time.Hour},
		{"30m", 30 * time.Minute},
	}
	for _, c := range cases {
		a := AuthConfig{TokenTTL: c.ttl}
		if got := a.TokenLifetime(); got != c.want {
			t.Errorf("TokenLifetime(%q) = %v, want %v", c.ttl, got, c.want)
		}
	}
}
