package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsStats bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long: `Display the most recent runs recorded by this client.

A run is one session against an authority, from start to goal or quit.
The history is only a record; it is never loaded back into a game.

Examples:
  platformer runs
  platformer runs --limit 5
  platformer runs --stats
  platformer runs --clear`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show totals per server instead")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete all recorded runs")
}

func runRuns(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(historyPath(cfg))
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if flagRunsClear {
		if err := store.ClearRuns(ctx); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}
	if flagRunsStats {
		return printStats(ctx, store)
	}

	runs, err := store.RecentRuns(ctx, flagRunsLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'platformer play' to record the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-16s  %-9s  %-8s  %6s  %5s  %5s  %s\n", "Started", "Outcome", "Duration", "Polls", "Drops", "Fails", "Server")
	fmt.Printf("  %-16s  %-9s  %-8s  %6s  %5s  %5s  %s\n", "-------", "-------", "--------", "-----", "-----", "-----", "------")

	for _, r := range runs {
		fmt.Printf("  %-16s  %-9s  %-8s  %6d  %5d  %5d  %s\n",
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Outcome,
			r.Duration().Round(time.Second),
			r.Polls, r.Dropped, r.Failures,
			r.Server,
		)
		if r.GoalMessage != "" {
			fmt.Printf("  %16s  %q\n", "", r.GoalMessage)
		}
	}
	return nil
}

func printStats(ctx context.Context, store *storage.Store) error {
	stats, err := store.StatsByServer(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-32s  %5s  %8s  %8s  %8s\n", "Server", "Runs", "Finished", "Polls", "Failures")
	for _, s := range stats {
		fmt.Printf("  %-32s  %5d  %8d  %8d  %8d\n", s.Server, s.Runs, s.Finished, s.Polls, s.Failures)
	}
	return nil
}
