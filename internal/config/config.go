package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/lull/internal/catalog"
)

// Version is reported in the default User-Agent.
var Version = "dev"

type Config struct {
	StateFile string `koanf:"state_file"` // sqlite path, empty means XDG data dir

	Audio   AudioConfig   `koanf:"audio"`
	Network NetworkConfig `koanf:"network"`
	Log     LogConfig     `koanf:"log"`
	Notify  NotifyConfig  `koanf:"notify"`

	// Streams replaces the built-in catalog when non-empty
	Streams []StreamConfig `koanf:"streams"`
}

// AudioConfig holds output and streaming settings.
type AudioConfig struct {
	BufferMs      int    `koanf:"buffer_ms"`       // speaker buffer (default: 250)
	UserAgent     string `koanf:"user_agent"`      // HTTP User-Agent (default: lull/<version>)
	FadeSeconds   *int   `koanf:"fade_seconds"`    // sleep timer fade window, 0 disables (default: 30)
	ReadTimeoutMs int    `koanf:"read_timeout_ms"` // fail a stream silent for this long (default: 5000)
}

// NetworkConfig holds connectivity detection settings.
type NetworkConfig struct {
	ProbeTimeoutMs int   `koanf:"probe_timeout_ms"` // D-Bus probe timeout (default: 500)
	AssumeWifi     *bool `koanf:"assume_wifi"`      // result when detection is unavailable (default: true)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // empty means XDG state dir
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Errors *bool `koanf:"errors"` // notify on error events (default: true)
}

// StreamConfig is one [[streams]] entry.
type StreamConfig struct {
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	URL         string `koanf:"url"`
	Artwork     string `koanf:"artwork"`
}

// Load reads the default config files, then extra in order. Later files win.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	// Explicit files must exist
	for _, path := range extra {
		if err := k.Load(file.Provider(expandPath(path)), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.StateFile = expandPath(cfg.StateFile)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/lull/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lull", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio

	if cfg.BufferMs <= 0 {
		cfg.BufferMs = 250
	}
	if cfg.ReadTimeoutMs <= 0 {
		cfg.ReadTimeoutMs = 5000
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "lull/" + Version
	}
	if cfg.FadeSeconds == nil || *cfg.FadeSeconds < 0 {
		fade := 30
		cfg.FadeSeconds = &fade
	}

	return cfg
}

// BufferSize returns the speaker buffer as a duration.
func (a AudioConfig) BufferSize() time.Duration {
	return time.Duration(a.BufferMs) * time.Millisecond
}

// ReadTimeout returns the stream idle timeout as a time.Duration.
func (a AudioConfig) ReadTimeout() time.Duration {
	return time.Duration(a.ReadTimeoutMs) * time.Millisecond
}

// FadeWindow returns the sleep timer fade window.
func (a AudioConfig) FadeWindow() time.Duration {
	if a.FadeSeconds == nil {
		return 0
	}
	return time.Duration(*a.FadeSeconds) * time.Second
}

// GetNetworkConfig returns the network configuration with defaults applied.
func (c *Config) GetNetworkConfig() NetworkConfig {
	cfg := c.Network

	if cfg.ProbeTimeoutMs <= 0 {
		cfg.ProbeTimeoutMs = 500
	}
	if cfg.AssumeWifi == nil {
		assume := true
		cfg.AssumeWifi = &assume
	}

	return cfg
}

// ProbeTimeout returns the wifi probe timeout as a duration.
func (n NetworkConfig) ProbeTimeout() time.Duration {
	return time.Duration(n.ProbeTimeoutMs) * time.Millisecond
}

// NotifyErrors reports whether error events raise desktop notifications.
func (c *Config) NotifyErrors() bool {
	return c.Notify.Errors == nil || *c.Notify.Errors
}

// Catalog builds the stream catalog, falling back to the built-in one.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if len(c.Streams) == 0 {
		return catalog.Default(), nil
	}
	entries := make([]catalog.Stream, len(c.Streams))
	for i, s := range c.Streams {
		entries[i] = catalog.Stream{
			URL:         strings.TrimSpace(s.URL),
			Title:       s.Title,
			Description: s.Description,
			Artwork:     s.Artwork,
		}
	}
	return catalog.FromEntries(entries)
}
