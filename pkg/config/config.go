package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/middleware"
	"github.com/dmitrymomot/anvil/pkg/redis"
)

// Config is the application configuration.
type Config struct {
	Middleware middleware.Config `koanf:"middleware"`
	Log        LogConfig         `koanf:"log"`
	Server     ServerConfig      `koanf:"server"`
	Redis      redis.Config      `koanf:"redis"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address         string        `koanf:"address"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Sentry logger.SentryConfig `koanf:"sentry"`
	Level  string              `koanf:"level"`
	Format string              `koanf:"format"`
}

// Options converts the log section into logger options.
func (c LogConfig) Options() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.Level),
		Format: c.Format,
	}
}

var defaults = map[string]any{
	"server.address":          ":8080",
	"server.shutdown_timeout": "30s",
	"log.level":               "info",
	"log.format":              logger.FormatJSON,
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	file      string
	envFile   string
	envPrefix string
}

// WithFile sets the YAML file path. An empty path disables the file source.
// Defaults to "config.yaml"; a missing file is not an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithEnvFile sets the .env file path. An empty path disables it.
// Defaults to ".env"; a missing file is not an error.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// WithEnvPrefix sets the environment variable prefix. Defaults to "ANVIL_".
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		if prefix != "" {
			l.envPrefix = prefix
		}
	}
}

// Load reads the configuration from all sources.
func Load(opts ...Option) (*Config, error) {
	l := &loader{
		file:      "config.yaml",
		envFile:   ".env",
		envPrefix: "ANVIL_",
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", l.envFile, err)
		}
	}

	k := koanf.New(".")

	if l.file != "" {
		if err := k.Load(file.Provider(l.file), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", l.file, err)
		}
	}

	prefix := l.envPrefix
	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	for key, v := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("config: default %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
