// Package config provides YAML-based configuration loading for the
// platformer client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Poll interval bounds.
const (
	MinPollInterval = 10 * time.Millisecond
	MaxPollInterval = time.Second
)

// ClientConfig contains all configuration for the client.
type ClientConfig struct {
	Server           string        `yaml:"server"`
	PollIntervalMs   int           `yaml:"poll_interval_ms"`
	RequestTimeoutMs int           `yaml:"request_timeout_ms"`
	SendTimeoutMs    int           `yaml:"send_timeout_ms"`
	FlashDurationMs  int           `yaml:"flash_duration_ms"`
	Tile             TileConfig    `yaml:"tile"`
	Assets           AssetsConfig  `yaml:"assets"`
	Log              LogConfig     `yaml:"log"`
	History          HistoryConfig `yaml:"history"`
}

// TileConfig is the size of one grid tile in terminal cells.
type TileConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AssetsConfig lists sprite sources in lookup order.
type AssetsConfig struct {
	Sources []string `yaml:"sources"`
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	DB string `yaml:"db"`
}

// PollInterval returns the poll cadence.
func (c ClientConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// RequestTimeout returns the timeout of one state fetch.
func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// SendTimeout returns the timeout of one command post.
func (c ClientConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMs) * time.Millisecond
}

// FlashDuration returns how long flash notices stay visible.
func (c ClientConfig) FlashDuration() time.Duration {
	return time.Duration(c.FlashDurationMs) * time.Millisecond
}

// SetFPS sets the poll interval from a frequency.
func (c *ClientConfig) SetFPS(fps int) {
	if fps > 0 {
		c.PollIntervalMs = 1000 / fps
	}
}

// Validate normalizes the configuration in place. Out-of-range values are
// clamped or reset to defaults; only an unusable server address is an error.
func (c *ClientConfig) Validate() error {
	if c.Server == "" {
		return errors.New("config: server address is required")
	}
	u, err := url.Parse(c.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: server %q must be an http(s) URL", c.Server)
	}

	def := DefaultClientConfig()
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = def.PollIntervalMs
	}
	c.PollIntervalMs = core.Clamp(c.PollIntervalMs,
		int(MinPollInterval/time.Millisecond), int(MaxPollInterval/time.Millisecond))
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = def.RequestTimeoutMs
	}
	if c.SendTimeoutMs <= 0 {
		c.SendTimeoutMs = def.SendTimeoutMs
	}
	if c.FlashDurationMs <= 0 {
		c.FlashDurationMs = def.FlashDurationMs
	}
	if c.Tile.Width <= 0 {
		c.Tile.Width = def.Tile.Width
	}
	if c.Tile.Height <= 0 {
		c.Tile.Height = def.Tile.Height
	}
	if len(c.Assets.Sources) == 0 {
		c.Assets.Sources = def.Assets.Sources
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return nil
}
