package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-platformer/internal/logging"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Connect to the authority and play in this terminal.

The client polls GET /state, draws the grid and posts every key press to
POST /input. When the authority reports the goal, polling stops and input
is ignored; quit with q.

Controls:
  ←/a →/d ↑/w  - Move
  Space        - Jump
  S U E R      - Save, undo, replay, reset
  1-9          - Pick a choice at a decision point
  ?            - More keys
  Q/Ctrl+C     - Quit

Logs are written to ~/.platformer/client.log unless log.file is set.

Examples:
  platformer play
  platformer play --server http://game.example:8080
  platformer play --config ./client.yaml --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logFile, err := logging.New(logging.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Prefix: "platformer",
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	client, sources, err := newAuthority(cfg, logger)
	if err != nil {
		return err
	}

	store, history := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	// Get terminal size early for the first layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	err = tui.Run(tui.Options{
		Config:    cfg,
		Authority: client,
		Assets:    render.NewAssets(logger),
		Sources:   sources,
		History:   history,
		Logger:    logger,
		User:      os.Getenv("USER"),
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return fmt.Errorf("running client: %w", err)
	}
	return nil
}
