package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultClientConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultClientConfig()) {
		t.Errorf("embedded default = %+v\nhardcoded = %+v", cfg, DefaultClientConfig())
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	data := "server: http://game.local:9000\npoll_interval_ms: 100\nassets:\n  sources: [\"dir:/srv/theme\", builtin]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server != "http://game.local:9000" || cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("Load() = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Assets.Sources, []string{"dir:/srv/theme", "builtin"}) {
		t.Errorf("sources = %v", cfg.Assets.Sources)
	}
	// Fields absent from the file keep their defaults.
	if cfg.FlashDuration() != 2*time.Second || cfg.Tile.Width != 2 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of invalid YAML should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr bool
		check   func(*testing.T, ClientConfig)
	}{
		{name: "defaults", mutate: func(*ClientConfig) {}},
		{name: "empty server", mutate: func(c *ClientConfig) { c.Server = "" }, wantErr: true},
		{name: "bad scheme", mutate: func(c *ClientConfig) { c.Server = "ws://x" }, wantErr: true},
		{
			name:   "interval too short",
			mutate: func(c *ClientConfig) { c.PollIntervalMs = 1 },
			check: func(t *testing.T, c ClientConfig) {
				if c.PollInterval() != MinPollInterval {
					t.Errorf("interval = %v", c.PollInterval())
				}
			},
		},
		{
			name:   "interval too long",
			mutate: func(c *ClientConfig) { c.PollIntervalMs = 5000 },
			check: func(t *testing.T, c ClientConfig) {
				if c.PollInterval() != MaxPollInterval {
					t.Errorf("interval = %v", c.PollInterval())
				}
			},
		},
		{
			name: "zero values reset",
			mutate: func(c *ClientConfig) {
				c.PollIntervalMs, c.RequestTimeoutMs, c.FlashDurationMs = 0, 0, 0
				c.Tile = TileConfig{}
				c.Assets.Sources = nil
			},
			check: func(t *testing.T, c ClientConfig) {
				def := DefaultClientConfig()
				if !reflect.DeepEqual(c, def) {
					t.Errorf("got %+v, expected defaults", c)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultClientConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestSetFPS(t *testing.T) {
	cfg := DefaultClientConfig()
	cfg.SetFPS(10)
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("SetFPS(10) interval = %v", cfg.PollInterval())
	}
	cfg.SetFPS(0)
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("SetFPS(0) should be ignored, interval = %v", cfg.PollInterval())
	}
}
