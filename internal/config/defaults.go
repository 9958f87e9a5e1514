package config

import (
	_ "embed"
)

//go:embed defaults/client.yaml
var defaultClientYAML []byte

// DefaultClientConfig returns the hardcoded client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Server:           "http://localhost:8080",
		PollIntervalMs:   50,
		RequestTimeoutMs: 2000,
		SendTimeoutMs:    2000,
		FlashDurationMs:  2000,
		Tile: TileConfig{
			Width:  2,
			Height: 1,
		},
		Assets: AssetsConfig{
			Sources: []string{"server", "builtin"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
