package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: cruxlog
  user: crux
  password: secret
auth:
  api_key: test-key
`

// TestLoadValid verifies a complete config file loads with workout policy
// defaults applied.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Workout.MaxAttemptsPerGrade != 3 {
		t.Errorf("max attempts default = %d, want 3", cfg.Workout.MaxAttemptsPerGrade)
	}
	if cfg.Workout.DefaultRestSeconds != 90 {
		t.Errorf("rest default = %d, want 90", cfg.Workout.DefaultRestSeconds)
	}
}

// TestLoadEnvOverride verifies environment variables take precedence over
// file values.
func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CRUXLOG_DB_HOST", "db.internal")
	t.Setenv("CRUXLOG_AUTH_API_KEY", "env-key")
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("db host = %q", cfg.Database.Host)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Auth.APIKey)
	}
}

// TestLoadMissingAPIKey verifies validation rejects a config without an
// API key.
func TestLoadMissingAPIKey(t *testing.T) {
	body := strings.Replace(validYAML, "api_key: test-key", "api_key: \"\"", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error")
	}
}

// TestLoadMissingFile verifies a helpful error for an absent config path.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

// TestTailscaleDefaultsHostname verifies an enabled tailscale section gets
// a hostname default and relaxes the port requirement.
func TestTailscaleDefaultsHostname(t *testing.T) {
	body := strings.Replace(validYAML, "port: 8080", "port: 0", 1) + `
tailscale:
  enabled: true
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tailscale.Hostname != "cruxlog" {
		t.Errorf("hostname = %q, want cruxlog", cfg.Tailscale.Hostname)
	}
}

// TestDSN verifies the connection string shape and the sslmode fallback.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, Name: "n", User: "u", Password: "p"}
	want := "postgres://u:p@h:5432/n?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
