// Package dungeon is a top-down crawl through a chain of walled rooms on
// two floors. The world lives in a chunked tile map carved out of the
// platform's permanent storage; the player moves in meters and is kept in
// canonical tile+offset form.
package dungeon

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tilecrawl/internal/config"
	"github.com/vovakirdan/tilecrawl/internal/core"
	"github.com/vovakirdan/tilecrawl/internal/memory"
	"github.com/vovakirdan/tilecrawl/internal/registry"
	"github.com/vovakirdan/tilecrawl/internal/tile"
)

// Facing is the direction the player last moved in.
type Facing int

const (
	FacingRight Facing = iota
	FacingUp
	FacingLeft
	FacingDown
)

// Mode selects the world layout.
type Mode int

const (
	ModeFloors Mode = iota // Two floors joined by stairs
	ModeFlat               // Single floor, no stairs
)

// configPath stores the custom config path set via CLI
var configPath string

// sizePreset stores the world size preset set via CLI
var sizePreset config.SizePreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetSizePreset sets the world size preset. Unknown names clear it.
func SetSizePreset(preset string) {
	p, err := config.ParseSizePreset(preset)
	if err != nil {
		p = ""
	}
	sizePreset = p
}

// LoadConfig returns the dungeon config for a mode, honouring the CLI
// config path and size preset.
func LoadConfig(mode Mode) (config.DungeonConfig, error) {
	cfg, err := config.LoadDungeon(configPath)
	if err != nil {
		return cfg, err
	}
	if sizePreset != "" {
		config.ApplySizePreset(&cfg, sizePreset)
	}
	if mode == ModeFlat {
		cfg.World.Stairs = false
	}
	return cfg, cfg.Validate()
}

// Game implements the dungeon crawl.
type Game struct {
	mode Mode
	cfg  config.DungeonConfig
	rng  *rand.Rand

	runtime core.RuntimeConfig
	mem     *core.GameMemory

	world   *World
	player  tile.Position
	camera  tile.Position
	facing  Facing
	visited map[Room]struct{}

	tick         uint64
	elapsed      float64 // Simulated seconds this run
	floorChanges int

	paused bool
	over   bool
	err    error // Set when the world could not be built
}

// New creates a dungeon with two floors.
func New() *Game {
	return &Game{mode: ModeFloors}
}

// NewFlat creates a single-floor dungeon.
func NewFlat() *Game {
	return &Game{mode: ModeFlat}
}

func init() {
	registry.Register("dungeon", func() registry.Game {
		return New()
	})
	registry.Register("dungeon_flat", func() registry.Game {
		return NewFlat()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeFlat {
		return "dungeon_flat"
	}
	return "dungeon"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeFlat {
		return "Dungeon (Flat)"
	}
	return "Dungeon"
}

// MemoryBytes reports the permanent storage the configured world needs.
func (g *Game) MemoryBytes() (int, error) {
	cfg, err := LoadConfig(g.mode)
	if err != nil {
		return 0, err
	}
	return memory.Megabytes(cfg.Memory.PermanentStorageMB), nil
}

// Reset loads the config and builds a new world inside mem.
func (g *Game) Reset(runtime core.RuntimeConfig, mem *core.GameMemory) error {
	cfg, err := LoadConfig(g.mode)
	if err != nil {
		g.err = err
		return err
	}
	return g.ResetWithConfig(runtime, mem, cfg)
}

// ResetWithConfig builds a new world from an explicit config.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, mem *core.GameMemory, cfg config.DungeonConfig) error {
	g.runtime = runtime
	g.mem = mem
	g.cfg = cfg
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tick = 0
	g.elapsed = 0
	g.floorChanges = 0
	g.paused = false
	g.over = false
	g.facing = FacingRight
	g.visited = make(map[Room]struct{})
	g.world = nil
	g.err = nil

	if mem == nil {
		g.err = ErrNoMemory
		return g.err
	}

	world, err := GenerateWorld(mem.PermanentStorage, cfg, runtime.Seed)
	if err != nil {
		g.err = fmt.Errorf("build world: %w", err)
		return g.err
	}
	g.world = world

	w, h := world.ScreenSize()
	g.camera = tile.CenteredPosition(w/2, h/2, 0)
	g.player = tile.CenteredPosition(w/2-2, h/2, 0)
	g.visit()
	return nil
}

// Step advances the game by one frame.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && (g.over || g.err != nil) {
		runtime := g.runtime
		runtime.Seed = g.rng.Int63()
		//nolint:errcheck // Error is kept in g.err and rendered
		g.ResetWithConfig(runtime, g.mem, g.cfg)
		return core.StepResult{State: g.State()}
	}

	if g.world == nil || g.over {
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionEnd) {
		g.over = true
		return core.StepResult{State: g.State()}
	}

	dt := input.DT
	if dt <= 0 {
		dt = g.runtime.TargetDT()
	}
	g.elapsed += dt

	g.movePlayer(input, dt)
	g.updateCamera()

	return core.StepResult{State: g.State()}
}

func (g *Game) visit() {
	g.visited[g.world.RoomOf(g.player)] = struct{}{}
}

// State returns the current game state. The score is the number of rooms
// the player has entered.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    len(g.visited),
		GameOver: g.over,
		Paused:   g.paused,
	}
}

// FloorChanges returns how many times the player took the stairs this run.
func (g *Game) FloorChanges() int {
	return g.floorChanges
}

// Seed returns the seed the current world was generated from.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

// Elapsed returns the simulated time of the current run. Paused frames
// do not count.
func (g *Game) Elapsed() time.Duration {
	return time.Duration(g.elapsed * float64(time.Second))
}

// Err returns the error that stopped the world from being built, if any.
func (g *Game) Err() error {
	return g.err
}
