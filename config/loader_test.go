package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir mirrors t.Chdir, which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
server:
  port: 9100
feed:
  producerRef: "TestProducer"
  provider: generator
nats:
  url: "nats://localhost:4222"
  subject: test.positions
metrics:
  enabled: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Feed.ProducerRef != "TestProducer" {
		t.Errorf("unexpected producer ref %q", cfg.Feed.ProducerRef)
	}
	if cfg.NATS.Subject != "test.positions" {
		t.Errorf("unexpected subject %q", cfg.NATS.Subject)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Feed.Provider != "generator" {
		t.Errorf("expected default provider generator, got %q", cfg.Feed.Provider)
	}
	if cfg.Feed.ProducerRef == "" {
		t.Error("producer ref should default to a non-empty value")
	}
	if cfg.NATS.Subject != "positions" {
		t.Errorf("expected default subject positions, got %q", cfg.NATS.Subject)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	writeConfig(t, `
server:
  port: 9100
feed:
  producerRef: "FileProducer"
  provider: generator
`)
	t.Setenv("PORT", "9200")
	t.Setenv("PRODUCER_REF", "EnvProducer")
	t.Setenv("PROVIDER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/positions")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("env PORT should win, got %d", cfg.Server.Port)
	}
	if cfg.Feed.ProducerRef != "EnvProducer" {
		t.Errorf("env PRODUCER_REF should win, got %q", cfg.Feed.ProducerRef)
	}
	if cfg.Feed.Provider != "postgres" {
		t.Errorf("env PROVIDER should win, got %q", cfg.Feed.Provider)
	}
	if cfg.Database.URL != "postgres://localhost/positions" {
		t.Errorf("env DATABASE_URL should win, got %q", cfg.Database.URL)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	writeConfig(t, `
server:
  port: 9100
feed:
  producerRef: "TestProducer"
  provider: carrier-pigeon
`)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	writeConfig(t, `
server:
  port: -1
feed:
  producerRef: "TestProducer"
  provider: generator
`)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for negative port")
	}
}
