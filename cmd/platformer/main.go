// platformer is a terminal client for a server-authoritative grid platformer.
//
// Usage:
//
//	platformer play          - Play against an authority in this terminal
//	platformer serve         - Serve the client over SSH
//	platformer keys          - Show key bindings
//	platformer runs          - Show recorded runs
//	platformer config        - Print the default config file
//
// Global flags:
//
//	--config <path>     - Client config YAML (default: search ~/.platformer, ./configs)
//	--server <url>      - Authority address (overrides the config)
//	--fps <rate>        - Poll rate (overrides poll_interval_ms)
//	--db <path>         - Run history database (default: ~/.platformer/runs.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagServer   string
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "Platformer - a terminal client for a server-run platformer",
	Long: `Platformer draws the game state kept by a remote authority as a tile
grid and sends your key presses back to it. The server owns the game; this
client only polls, draws and forwards input.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  keys     - Show key bindings
  runs     - Show recorded runs
  config   - Print the default config file

Examples:
  platformer play --server http://localhost:8080
  platformer play --fps 10
  platformer serve --ssh :2222
  platformer runs --limit 5`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to client config YAML")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Authority URL (e.g. http://localhost:8080)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Polls per second (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}
