package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
siteName: farmco
listenAddr: ":8080"
mysql:
  dsn: "user:pass@tcp(localhost:3306)/farmco?parseTime=true"
session:
  timeoutMinutes: 20
  warningMinutes: 3
  checkIntervalMs: 10000
  cookieName: farmco_session
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SiteName != "farmco" || cfg.ListenAddr != ":8080" {
		t.Fatalf("top-level fields not loaded: %+v", cfg)
	}
	if cfg.Session.Timeout() != 20*time.Minute {
		t.Fatalf("Timeout() = %v, want 20m", cfg.Session.Timeout())
	}
	if cfg.Session.WarningLead() != 3*time.Minute {
		t.Fatalf("WarningLead() = %v, want 3m", cfg.Session.WarningLead())
	}
	if cfg.Session.CheckInterval() != 10*time.Second {
		t.Fatalf("CheckInterval() = %v, want 10s", cfg.Session.CheckInterval())
	}
	if cfg.Session.CookieName != "farmco_session" {
		t.Fatalf("cookie name = %q", cfg.Session.CookieName)
	}
}

// TestSanitizeDefaults verifies an almost empty file still yields a usable
// configuration.
func TestSanitizeDefaults(t *testing.T) {
	path := writeConfig(t, `
mysql:
  dsn: "user:pass@tcp(localhost:3306)/farmco"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("listen addr default = %q", cfg.ListenAddr)
	}
	if cfg.Session.Timeout() != DefaultSessionTimeout {
		t.Fatalf("timeout default = %v", cfg.Session.Timeout())
	}
	if cfg.Session.WarningLead() != DefaultSessionWarningLead {
		t.Fatalf("warning default = %v", cfg.Session.WarningLead())
	}
	if cfg.Session.CheckInterval() != DefaultSessionCheckInterval {
		t.Fatalf("check interval default = %v", cfg.Session.CheckInterval())
	}
	if cfg.Session.CookieName == "" {
		t.Fatalf("cookie name default missing")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
