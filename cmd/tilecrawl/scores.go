package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilecrawl/internal/registry"
	"github.com/vovakirdan/tilecrawl/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresSort  string
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show the best runs for a dungeon",
	Long: `Display the best recorded runs for the specified dungeon.
Runs are ranked by rooms explored, then by the shortest time,
or by time first with --sort time.

Examples:
  tilecrawl scores dungeon
  tilecrawl scores dungeon_flat --limit 20
  tilecrawl scores dungeon --sort time
  tilecrawl scores dungeon --all
  tilecrawl scores dungeon --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagScoresSort, "sort", string(storage.ByRooms), "Ranking: rooms or time")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every recorded run, ignoring --limit")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded run for the dungeon")
	scoresCmd.MarkFlagsMutuallyExclusive("all", "clear")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tilecrawl list' to see available dungeons.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	order, err := storage.ParseRunOrder(flagScoresSort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		logger.Info("cleared runs", "game", gameID)
		fmt.Printf("Cleared all runs for %s.\n", title)
		return
	}

	var runs []storage.Run
	if flagScoresAll {
		runs, err = store.AllRuns(gameID)
	} else {
		runs, err = store.RankedRuns(gameID, order, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	heading := "Best Runs"
	if order == storage.ByTime && !flagScoresAll {
		heading = "Fastest Runs"
	}
	fmt.Printf("%s - %s\n", heading, title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tilecrawl play %s' to record the first one!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-12s  %-5s  %-6s  %-7s  %s\n", "Rank", "Player", "Rooms", "Stairs", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-5s  %-6s  %-7s  %s\n", "----", "------", "-----", "------", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-5d  %-6d  %-7s  %s\n",
			i+1, r.Player, r.Score, r.FloorChanges,
			r.Duration.Round(time.Second).String(), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d rooms  Average: %.1f rooms  Stairs taken: %d  Time played: %s\n",
			stats.RunsCount, stats.HighScore, stats.AvgScore, stats.FloorChanges, stats.TotalTime.Round(time.Second))
	}
}
