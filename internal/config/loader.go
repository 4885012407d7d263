package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const dungeonFile = "dungeon.yaml"

// LoadDungeon loads the dungeon configuration.
// Search order: customPath -> ~/.tilecrawl/configs/dungeon.yaml ->
// ./configs/dungeon.yaml -> embedded default -> hard-coded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it sets.
func LoadDungeon(customPath string) (DungeonConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DungeonConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseDungeon(data)
		if err != nil {
			return DungeonConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(dungeonFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseDungeon(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", dungeonFile)); err == nil {
		if cfg, err := parseDungeon(data); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultDungeonConfig()
	if err := yaml.Unmarshal(defaultDungeonYAML, &cfg); err != nil {
		return DefaultDungeonConfig(), nil
	}
	return cfg, nil
}

func parseDungeon(data []byte) (DungeonConfig, error) {
	cfg := DefaultDungeonConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DungeonConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DungeonConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilecrawl", "configs", filename)
}

// SizePreset is a named world size.
type SizePreset string

const (
	SizeSmall  SizePreset = "small"
	SizeNormal SizePreset = "normal"
	SizeLarge  SizePreset = "large"
)

// ParseSizePreset maps a CLI value to a preset. Empty means no preset.
func ParseSizePreset(s string) (SizePreset, error) {
	switch SizePreset(s) {
	case "", SizeSmall, SizeNormal, SizeLarge:
		return SizePreset(s), nil
	}
	return "", fmt.Errorf("unknown size %q (want small, normal or large)", s)
}

// ApplySizePreset scales the world and its memory block.
func ApplySizePreset(cfg *DungeonConfig, preset SizePreset) {
	switch preset {
	case SizeSmall:
		cfg.World.Screens = 30
		cfg.Map.ChunkCountX = 64
		cfg.Map.ChunkCountY = 64
		cfg.Memory.PermanentStorageMB = 4
	case SizeNormal:
		cfg.World.Screens = 100
		cfg.Map.ChunkCountX = 128
		cfg.Map.ChunkCountY = 128
		cfg.Memory.PermanentStorageMB = 16
	case SizeLarge:
		cfg.World.Screens = 400
		cfg.Map.ChunkCountX = 512
		cfg.Map.ChunkCountY = 512
		cfg.Memory.PermanentStorageMB = 64
	}
}
