package main

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/authority"
	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/render"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// loadConfig reads the client config and applies the global flags.
func loadConfig() (config.ClientConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	cfg.SetFPS(flagFPS)
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.History.DB = flagDBPath
	}
	return cfg, cfg.Validate()
}

// historyPath returns the run database location.
func historyPath(cfg config.ClientConfig) string {
	if cfg.History.DB != "" {
		return cfg.History.DB
	}
	return config.UserPath("runs.db")
}

// openHistory opens the run history. The client works without it.
func openHistory(cfg config.ClientConfig, logger *log.Logger) (*storage.Store, tui.RunRecorder) {
	store, err := storage.Open(historyPath(cfg))
	if err != nil {
		logger.Warn("could not open run history", "error", err)
		return nil, nil
	}
	return store, store
}

// newAuthority creates the authority client and the sprite sources.
func newAuthority(cfg config.ClientConfig, logger *log.Logger) (*authority.Client, []render.Source, error) {
	client, err := authority.New(cfg.Server,
		authority.WithLogger(logger),
		authority.WithUserAgent("platformer"),
	)
	if err != nil {
		return nil, nil, err
	}
	sources, err := render.ParseSources(cfg.Assets.Sources, client)
	if err != nil {
		return nil, nil, err
	}
	return client, sources, nil
}
