// tilecrawl is a terminal dungeon crawl over a chunked tile map.
//
// Usage:
//
//	tilecrawl list              - List available dungeons
//	tilecrawl play <game>       - Play a dungeon
//	tilecrawl menu              - Start menu to pick a dungeon interactively
//	tilecrawl serve             - Start SSH server for remote play
//	tilecrawl scores <game>     - Show the best runs for a dungeon
//	tilecrawl gen <game>        - Print a generated floor as ASCII
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for a reproducible world
//	--db <path>     - Set database path (default: ~/.tilecrawl/runs.db)
//	--verbose       - Log debug output
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagVerbose bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "tilecrawl",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilecrawl",
	Short: "tilecrawl - explore a tile-map dungeon in your terminal",
	Long: `tilecrawl is a top-down dungeon crawl that runs in the terminal.
The world is a chain of walled rooms stored in a chunked tile map,
spread over two floors joined by stairs.

Available commands:
  list     - Show all available dungeons
  play     - Play a specific dungeon directly
  menu     - Interactive dungeon picker menu
  serve    - Start SSH server for remote play
  scores   - View the best runs
  gen      - Print a generated floor without starting the game

Examples:
  tilecrawl list
  tilecrawl play dungeon
  tilecrawl play dungeon --size large
  tilecrawl menu
  tilecrawl serve --ssh :2222
  tilecrawl gen dungeon --seed 7 --floor 1`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilecrawl/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(genCmd)
}
