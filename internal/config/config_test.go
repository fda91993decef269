package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "MAX_UPLOAD_BYTES", "METRICS_ENABLED",
		"STRICT_NUMBERS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != defaultPort || cfg.HTTP.Host != defaultHost {
		t.Fatalf("unexpected address %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	}
	if cfg.HTTP.MaxUploadBytes != defaultMaxUploadBytes || !cfg.HTTP.MetricsEnabled {
		t.Fatalf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.HTTP.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("expected shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Ingest.Strict {
		t.Fatal("strict mode should be off by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("STRICT_NUMBERS", "true")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.ReadTimeout != 3*time.Second || cfg.HTTP.MaxUploadBytes != 1024 {
		t.Fatalf("unexpected http config: %+v", cfg.HTTP)
	}
	if !cfg.Ingest.Strict || cfg.HTTP.MetricsEnabled || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFallsBackToPORT(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != 7000 {
		t.Fatalf("expected port 7000, got %d", cfg.HTTP.Port)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from env file, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port":    {"SERVER_PORT", "http"},
		"range":   {"SERVER_PORT", "70000"},
		"timeout": {"SERVER_WRITE_TIMEOUT", "soon"},
		"upload":  {"MAX_UPLOAD_BYTES", "-5"},
		"strict":  {"STRICT_NUMBERS", "maybe"},
		"metrics": {"METRICS_ENABLED", "on"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
