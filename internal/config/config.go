// Package config loads checktree settings from checktree.yaml or checktree.json.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/checktree/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "checktree.yaml"

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Redis configures the redis snapshot store.
type Redis struct {
	Addr   string `yaml:"addr" json:"addr"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	// TTL is a Go duration such as "72h". Empty keeps snapshots forever.
	TTL string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// Config is the file layout of checktree.yaml.
type Config struct {
	Dir         string `yaml:"dir" json:"dir"`
	Store       string `yaml:"store" json:"store"`
	SnapshotDir string `yaml:"snapshot_dir,omitempty" json:"snapshot_dir,omitempty"`
	Redis       Redis  `yaml:"redis" json:"redis"`
	Session     string `yaml:"session" json:"session"`
	Filter      string `yaml:"filter,omitempty" json:"filter,omitempty"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	LogFormat   string `yaml:"log_format" json:"log_format"`
	HTTPAddr    string `yaml:"http_addr" json:"http_addr"`
	// InstalledTitles hides packs for titles not listed here. Hex, "0x" optional.
	InstalledTitles []string `yaml:"installed_titles,omitempty" json:"installed_titles,omitempty"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Dir:       ".",
		Store:     StoreFile,
		Redis:     Redis{Addr: "localhost:6379"},
		Session:   "default",
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		HTTPAddr:  ":8080",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Files ending in .json are decoded as JSON, anything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks the fields that are parsed later.
func (c Config) Validate() error {
	switch c.Store {
	case StoreNone, StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want none, memory, file or redis)", c.Store)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if _, err := c.RedisTTL(); err != nil {
		return err
	}
	if _, err := c.TitleIDs(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// RedisTTL parses Redis.TTL. Zero means no expiry.
func (c Config) RedisTTL() (time.Duration, error) {
	if c.Redis.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", c.Redis.TTL, err)
	}
	return d, nil
}

// TitleIDs parses InstalledTitles. Nil means every title is installed.
func (c Config) TitleIDs() ([]uint64, error) {
	if len(c.InstalledTitles) == 0 {
		return nil, nil
	}
	out := make([]uint64, 0, len(c.InstalledTitles))
	for _, s := range c.InstalledTitles {
		s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
		id, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid title id %q: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}
