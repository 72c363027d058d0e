package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 5432
  name: healthtogo
  user: health
  password: secret
auth:
  api_key: test-key
  premium: true
export:
  dir: /tmp/exports
tailscale:
  enabled: false
timezone: Europe/Rome
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

// TestLoadValid verifies a complete config file parses into the expected
// struct.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "healthtogo" {
		t.Errorf("Database.Name = %q, want healthtogo", cfg.Database.Name)
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("Auth.APIKey = %q, want test-key", cfg.Auth.APIKey)
	}
	if !cfg.Auth.Premium {
		t.Error("Auth.Premium = false, want true")
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q, want /tmp/exports", cfg.Export.Dir)
	}
	if cfg.Timezone != "Europe/Rome" {
		t.Errorf("Timezone = %q, want Europe/Rome", cfg.Timezone)
	}
}

// TestEnvOverride verifies environment variables win over file values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("HEALTHTOGO_DB_HOST", "db.internal")
	t.Setenv("HEALTHTOGO_SERVER_PORT", "9090")
	t.Setenv("HEALTHTOGO_PREMIUM", "false")
	t.Setenv("HEALTHTOGO_TIMEZONE", "UTC")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.Premium {
		t.Error("Auth.Premium = true, want false after override")
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
}

// TestValidation verifies missing required fields are rejected.
func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing server port", `
database: {host: localhost, port: 5432, name: db, user: u}
auth: {api_key: k}
`},
		{"missing db host", `
server: {port: 8080}
database: {port: 5432, name: db, user: u}
auth: {api_key: k}
`},
		{"missing api key", `
server: {port: 8080}
database: {host: localhost, port: 5432, name: db, user: u}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tt.yaml)); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

// TestExportDirDefault verifies the export directory falls back to
// "exports" when unset.
func TestExportDirDefault(t *testing.T) {
	yaml := `
server: {port: 8080}
database: {host: localhost, port: 5432, name: db, user: u}
auth: {api_key: k}
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Dir != "exports" {
		t.Errorf("Export.Dir = %q, want exports", cfg.Export.Dir)
	}
}

// TestDSN verifies the connection string shape and the sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "db", User: "u", Password: "p"}

	want := "postgres://u:p@localhost:5432/db?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); got != "postgres://u:p@localhost:5432/db?sslmode=require" {
		t.Errorf("DSN = %q, want sslmode=require", got)
	}
}

// TestLoadMissingFile verifies a nonexistent path errors instead of
// silently using defaults.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded for missing file")
	}
}
