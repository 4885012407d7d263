// Package config provides YAML-based world configuration loading and
// size presets for the dungeon.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for values the game cannot run with.
var ErrInvalid = errors.New("config: invalid dungeon config")

// DungeonConfig contains all configuration for the dungeon game.
type DungeonConfig struct {
	Map    MapConfig    `yaml:"map"`
	World  WorldConfig  `yaml:"world"`
	Player PlayerConfig `yaml:"player"`
	Memory MemoryConfig `yaml:"memory"`
}

// MapConfig describes the tile map addressing.
type MapConfig struct {
	ChunkShift       uint32  `yaml:"chunk_shift"`
	TileSideInMeters float64 `yaml:"tile_side_m"`
	ChunkCountX      uint32  `yaml:"chunk_count_x"`
	ChunkCountY      uint32  `yaml:"chunk_count_y"`
	ChunkCountZ      uint32  `yaml:"chunk_count_z"`
}

// WorldConfig controls world generation.
type WorldConfig struct {
	Screens      int          `yaml:"screens"`        // Rooms in the generated chain
	ScreenTilesX int          `yaml:"screen_tiles_x"` // Room width in tiles
	ScreenTilesY int          `yaml:"screen_tiles_y"` // Room height in tiles
	Stairs       bool         `yaml:"stairs"`         // Allow floor changes
	StairsX      int          `yaml:"stairs_x"`       // Stairs tile inside a room
	StairsY      int          `yaml:"stairs_y"`
	Rubble       RubbleConfig `yaml:"rubble"`
}

// RubbleConfig scatters wall tiles inside rooms using Perlin noise.
type RubbleConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"` // Noise above this becomes a wall, in [-1, 1]
	Scale     float64 `yaml:"scale"`     // Noise units per tile
}

// PlayerConfig defines the player body and movement.
type PlayerConfig struct {
	Height     float64 `yaml:"height_m"`
	WidthRatio float64 `yaml:"width_ratio"` // Width as a fraction of height
	Speed      float64 `yaml:"speed"`       // Meters per second
	RunSpeed   float64 `yaml:"run_speed"`   // Meters per second while running
}

// Width returns the player width in meters.
func (p PlayerConfig) Width() float64 {
	return p.WidthRatio * p.Height
}

// MemoryConfig sizes the block the platform allocates for the game.
type MemoryConfig struct {
	PermanentStorageMB int `yaml:"permanent_storage_mb"`
}

// Validate checks the config for values the game cannot run with.
// Tile map addressing is validated by the tile package itself.
func (c DungeonConfig) Validate() error {
	w := c.World
	switch {
	case w.Screens < 1:
		return fmt.Errorf("%w: world.screens must be at least 1, got %d", ErrInvalid, w.Screens)
	case w.ScreenTilesX < 5 || w.ScreenTilesY < 5:
		return fmt.Errorf("%w: rooms must be at least 5x5 tiles, got %dx%d", ErrInvalid, w.ScreenTilesX, w.ScreenTilesY)
	case w.Stairs && (w.StairsX < 1 || w.StairsX > w.ScreenTilesX-2 || w.StairsY < 1 || w.StairsY > w.ScreenTilesY-2):
		return fmt.Errorf("%w: stairs (%d,%d) must be inside the room walls", ErrInvalid, w.StairsX, w.StairsY)
	case w.Stairs && c.Map.ChunkCountZ < 2:
		return fmt.Errorf("%w: stairs need at least two floors", ErrInvalid)
	}

	p := c.Player
	if p.Height <= 0 || p.WidthRatio <= 0 || p.Speed <= 0 || p.RunSpeed <= 0 {
		return fmt.Errorf("%w: player dimensions and speeds must be positive", ErrInvalid)
	}
	if p.Width() >= c.Map.TileSideInMeters {
		return fmt.Errorf("%w: player width %.2fm does not fit through a %.2fm door", ErrInvalid, p.Width(), c.Map.TileSideInMeters)
	}
	if c.Memory.PermanentStorageMB < 1 {
		return fmt.Errorf("%w: memory.permanent_storage_mb must be at least 1", ErrInvalid)
	}
	return nil
}
