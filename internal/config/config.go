package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Ingest  IngestConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	MetricsEnabled  bool
}

// IngestConfig controls diagram extraction.
type IngestConfig struct {
	Strict bool
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8081
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxUploadBytes  = 64 << 20
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
)

// Load reads configuration from environment variables, applying defaults.
// Variables found in envFiles (".env" when none are given) are added to the
// environment first; variables already set are never overridden.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return Config{}, errors.Wrap(err, "load env file")
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:           valueOrDefault("SERVER_HOST", defaultHost),
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
	}

	var err error
	if cfg.HTTP.MetricsEnabled, err = parseBool("METRICS_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.Ingest.Strict, err = parseBool("STRICT_NUMBERS", false); err != nil {
		return Config{}, err
	}

	port, err := parsePort(defaultPort, "SERVER_PORT", "PORT")
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
		def time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout, defaultReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout, defaultWriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout, defaultIdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout, defaultShutdownTimeout},
	}
	for _, d := range durations {
		*d.dst = d.def
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.Wrapf(err, "invalid %s", d.key)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, errors.Errorf("invalid MAX_UPLOAD_BYTES value %q", v)
		}
		cfg.HTTP.MaxUploadBytes = n
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s value %q", key, v)
	}
	return val, nil
}

// parsePort reads the first of keys that is set.
func parsePort(fallback int, keys ...string) (int, error) {
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s value %q", key, v)
		}
		if port <= 0 || port > 65535 {
			return 0, errors.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
