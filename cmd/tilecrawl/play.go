package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilecrawl/internal/config"
	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/games/dungeon"
	"github.com/vovakirdan/tilecrawl/internal/platform/tui"
	"github.com/vovakirdan/tilecrawl/internal/registry"
	"github.com/vovakirdan/tilecrawl/internal/storage"
)

var (
	flagConfig string
	flagSize   string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a dungeon",
	Long: `Start exploring the specified dungeon.

Controls:
  WASD/Arrows        - Move
  Shift+move, Space  - Run
  E                  - End the run and record it
  P                  - Pause
  R                  - Restart (after the run ended)
  Esc/B              - Leave (when paused or ended)
  Ctrl+S             - Save a screenshot
  Q/Ctrl+C           - Quit

Size presets:
  small  - 30 rooms, small map, 4 MB of world storage
  normal - 100 rooms, 16 MB (default)
  large  - 400 rooms, 64 MB

Examples:
  tilecrawl play dungeon
  tilecrawl play dungeon_flat --size small
  tilecrawl play dungeon --seed 42
  tilecrawl play dungeon --config ./my-dungeon.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd, genCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to custom dungeon config YAML")
		c.Flags().StringVar(&flagSize, "size", "", "World size preset: small, normal, large")
	}
}

// applyDungeonFlags hands --config and --size to the dungeon package and
// checks that the resulting config loads.
func applyDungeonFlags() error {
	if flagSize != "" {
		if _, err := config.ParseSizePreset(flagSize); err != nil {
			return err
		}
	}
	dungeon.SetConfigPath(flagConfig)
	dungeon.SetSizePreset(flagSize)

	cfg, err := dungeon.LoadConfig(dungeon.ModeFloors)
	if err != nil {
		return err
	}
	logger.Debug("dungeon config",
		"screens", cfg.World.Screens,
		"chunks", fmt.Sprintf("%dx%dx%d", cfg.Map.ChunkCountX, cfg.Map.ChunkCountY, cfg.Map.ChunkCountZ),
		"memory_mb", cfg.Memory.PermanentStorageMB,
	)
	return nil
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the runs database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tilecrawl list' to see available dungeons.")
		os.Exit(1)
	}

	if err := applyDungeonFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	runErr := tui.Run(game, store, terminalConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
