package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilecrawl/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available dungeons",
	Long:  `Shows a list of all dungeon variants that can be played.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No dungeons available.")
		return
	}

	fmt.Println("Available dungeons:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	maxTitleLen := 5 // "Title" header
	for _, g := range games {
		if len(g.Title) > maxTitleLen {
			maxTitleLen = len(g.Title)
		}
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Best")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----")

	for _, g := range games {
		best := "-"
		if store != nil {
			if rooms, err := store.HighScore(g.ID); err == nil && rooms > 0 {
				best = fmt.Sprintf("%d rooms", rooms)
			}
		}
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, g.ID, maxTitleLen, g.Title, best)
	}

	fmt.Println()
	fmt.Println("Run 'tilecrawl play <id>' to play.")
}
