package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Env      string         `koanf:"env"` // development | staging | production
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Storage  StorageConfig  `koanf:"storage"`
	Provider ProviderConfig `koanf:"provider"`
	Demo     DemoConfig     `koanf:"demo"`
	Export   ExportConfig   `koanf:"export"`
	Auth     AuthConfig     `koanf:"auth"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
	Mode string `koanf:"mode"` // debug | release
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StorageConfig struct {
	Backend      string `koanf:"backend"` // file | postgres
	SnapshotFile string `koanf:"snapshot_file"`
	DSN          string `koanf:"dsn"`
}

type ProviderConfig struct {
	Mode         string `koanf:"mode"` // simulated | none
	SyncInterval string `koanf:"sync_interval"`
}

type DemoConfig struct {
	DescriptorFile string `koanf:"descriptor_file"`
}

type ExportConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	Token     string `koanf:"token"`
	RemoteURL string `koanf:"remote_url"`
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("env must be one of development, staging, production, got %q", c.Env)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	switch c.Storage.Backend {
	case "file":
		if strings.TrimSpace(c.Storage.SnapshotFile) == "" {
			return fmt.Errorf("storage.snapshot_file is required when storage.backend=file")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required when storage.backend=postgres")
		}
	default:
		return fmt.Errorf("unsupported storage.backend %q", c.Storage.Backend)
	}
	if c.Provider.Mode != "simulated" && c.Provider.Mode != "none" {
		return fmt.Errorf("unsupported provider.mode %q", c.Provider.Mode)
	}
	interval, err := time.ParseDuration(c.Provider.SyncInterval)
	if err != nil {
		return fmt.Errorf("invalid provider.sync_interval %q: %w", c.Provider.SyncInterval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("provider.sync_interval must be > 0")
	}
	if c.Env != "development" && strings.TrimSpace(c.Auth.RemoteURL) == "" {
		return fmt.Errorf("auth.remote_url is required outside development")
	}
	return nil
}

// SyncIntervalDuration assumes Validate has passed.
func (c *Config) SyncIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Provider.SyncInterval)
	return d
}

// Load parses config from an optional yaml file plus SLEEP_-prefixed
// env vars (SLEEP_SERVER__ADDR overrides server.addr), then validates.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"env":                    "development",
		"server.addr":            ":8088",
		"server.mode":            "release",
		"log.level":              "info",
		"storage.backend":        "file",
		"storage.snapshot_file":  "data/snapshot.json",
		"storage.dsn":            "",
		"provider.mode":          "simulated",
		"provider.sync_interval": "5m",
		"demo.descriptor_file":   "",
		"export.path":            "data/sleep.csv",
		"auth.token":             "MOCK-TOKEN",
		"auth.remote_url":        "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SLEEP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SLEEP_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
