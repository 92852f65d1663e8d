package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != defaultPort || !cfg.IsDev() {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Addr() != ":2333" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
jwt_secret: topsecret
database:
  host: db.internal
  port: 3306
  user: habaru
  password: pw
  name: habaru_prod
redis:
  host: cache.internal
  port: 6380
  db: 2
s3:
  endpoint: https://s3.internal
  bucket: habaru-files
  access_key_id: AKIA
  secret_access_key: shh
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.IsDev() {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.S3.Configured() {
		t.Error("S3 should be configured")
	}

	dsn := cfg.Database.DSNValue()
	if !strings.Contains(dsn, "habaru:pw@tcp(db.internal:3306)/habaru_prod") {
		t.Errorf("dsn = %q", dsn)
	}
	if got := cfg.Redis.URLValue(); !strings.Contains(got, "cache.internal:6380") || !strings.HasSuffix(got, "/2") {
		t.Errorf("redis url = %q", got)
	}
}

func TestLoadExplicitDSNWins(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "u:p@tcp(elsewhere:3306)/other"
  host: ignored
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Database.DSNValue(); got != "u:p@tcp(elsewhere:3306)/other" {
		t.Errorf("dsn = %q", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"bad port": "port: -1",
		"bad env":  "env: staging",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
