// Package config handles loading, defaulting, and validation of the courtcam
// TOML configuration file. Every section maps to a typed struct so the rest
// of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Relay     RelayConfig     `toml:"relay"     json:"relay"`
	Server    ServerConfig    `toml:"server"    json:"server"`
	Playback  PlaybackConfig  `toml:"playback"  json:"playback"`
	Recording RecordingConfig `toml:"recording" json:"recording"`
	Notify    NotifyConfig    `toml:"notify"    json:"notify"`
	Logging   LoggingConfig   `toml:"logging"   json:"logging"`
	Demo      DemoConfig      `toml:"demo"      json:"demo"`
}

// RelayConfig describes the real-time relay the device is reachable through.
// The token is an opaque credential handed to the relay at connect time.
type RelayConfig struct {
	URL      string `toml:"url"       json:"url"`
	Token    string `toml:"token"     json:"-"`
	DeviceID string `toml:"device_id" json:"device_id"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

// PlaybackConfig points at the HTTP base the device serves recordings from.
// The console only constructs URLs; it never proxies media.
type PlaybackConfig struct {
	BaseURL string `toml:"base_url" json:"base_url"`
}

// RecordingConfig holds the allow-lists for start commands. Values outside
// these lists are rejected before anything reaches the relay.
type RecordingConfig struct {
	Minutes  []int    `toml:"minutes"  json:"minutes"`
	Profiles []string `toml:"profiles" json:"profiles"`
}

type NotifyConfig struct {
	TTLMillis int `toml:"ttl_ms" json:"ttl_ms"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// DemoConfig switches the daemon to a simulated device so the console can be
// exercised end-to-end without a camera or relay.
type DemoConfig struct {
	Enabled      bool `toml:"enabled"       json:"enabled"`
	OfflineEvery int  `toml:"offline_every" json:"offline_every"`
}

// NoticeTTL returns the notification lifetime as a duration.
func (c Config) NoticeTTL() time.Duration {
	return time.Duration(c.Notify.TTLMillis) * time.Millisecond
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Relay: RelayConfig{
			URL:      "wss://relay.example.net/socket",
			DeviceID: "pi-cam-001",
		},
		Server: ServerConfig{
			Bind: "127.0.0.1:8090",
		},
		Playback: PlaybackConfig{
			BaseURL: "http://127.0.0.1:8091",
		},
		Recording: RecordingConfig{
			Minutes:  []int{15, 30, 60},
			Profiles: []string{"720p30", "720p60", "1080p30"},
		},
		Notify: NotifyConfig{
			TTLMillis: 3000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Demo: DemoConfig{
			Enabled:      false,
			OfflineEvery: 0,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the constraints every consumer of Config relies on.
func Validate(cfg Config) error {
	if cfg.Relay.DeviceID == "" {
		return errors.New("relay.device_id must not be empty")
	}
	u, err := url.Parse(cfg.Relay.URL)
	if err != nil {
		return fmt.Errorf("relay.url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("relay.url must use ws or wss, got %q", u.Scheme)
	}
	if len(cfg.Recording.Minutes) == 0 {
		return errors.New("recording.minutes must list at least one duration")
	}
	for _, m := range cfg.Recording.Minutes {
		if m <= 0 {
			return fmt.Errorf("recording.minutes entries must be positive, got %d", m)
		}
	}
	if len(cfg.Recording.Profiles) == 0 {
		return errors.New("recording.profiles must list at least one profile")
	}
	if cfg.Notify.TTLMillis <= 0 {
		return errors.New("notify.ttl_ms must be > 0")
	}
	if cfg.Demo.OfflineEvery < 0 {
		return errors.New("demo.offline_every must be >= 0")
	}
	return nil
}
