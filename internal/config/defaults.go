package config

import (
	_ "embed"
)

//go:embed defaults/dungeon.yaml
var defaultDungeonYAML []byte

// DefaultDungeonConfig returns the hard-coded dungeon configuration.
// It matches defaults/dungeon.yaml and is used when the embedded file
// cannot be parsed.
func DefaultDungeonConfig() DungeonConfig {
	return DungeonConfig{
		Map: MapConfig{
			ChunkShift:       4,
			TileSideInMeters: 1.4,
			ChunkCountX:      128,
			ChunkCountY:      128,
			ChunkCountZ:      2,
		},
		World: WorldConfig{
			Screens:      100,
			ScreenTilesX: 17,
			ScreenTilesY: 9,
			Stairs:       true,
			StairsX:      10,
			StairsY:      6,
			Rubble: RubbleConfig{
				Enabled:   true,
				Threshold: 0.35,
				Scale:     0.21,
			},
		},
		Player: PlayerConfig{
			Height:     1.4,
			WidthRatio: 0.75,
			Speed:      2.0,
			RunSpeed:   10.0,
		},
		Memory: MemoryConfig{
			PermanentStorageMB: 16,
		},
	}
}
