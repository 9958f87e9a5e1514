package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show key bindings",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("Key bindings")
		fmt.Println()
		for _, group := range tui.DefaultKeyMap().FullHelp() {
			for _, b := range group {
				h := b.Help()
				fmt.Printf("  %-8s  %s\n", h.Key, h.Desc)
			}
			fmt.Println()
		}
		fmt.Println("Save, undo, replay and reset show a short confirmation.")
	},
}
