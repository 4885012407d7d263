package tile

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tilecrawl/internal/memory"
)

const maxChunkShift = 12

var (
	// ErrChunkOutOfRange is returned when a write addresses a chunk beyond
	// the map's declared extents.
	ErrChunkOutOfRange = errors.New("tile: chunk out of range")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("tile: invalid map config")
)

// Config describes the shape of a tile map.
type Config struct {
	ChunkShift       uint32  // log2 of the chunk side length in tiles
	TileSideInMeters float64 // metric size of one tile
	ChunkCountX      uint32
	ChunkCountY      uint32
	ChunkCountZ      uint32
}

// DefaultConfig returns the map shape used by the dungeon: 16x16 chunks,
// 1.4m tiles, 128x128 chunks on two floors.
func DefaultConfig() Config {
	return Config{
		ChunkShift:       4,
		TileSideInMeters: 1.4,
		ChunkCountX:      128,
		ChunkCountY:      128,
		ChunkCountZ:      2,
	}
}

// ChunkCount returns the total number of chunk slots.
func (c Config) ChunkCount() uint64 {
	return uint64(c.ChunkCountX) * uint64(c.ChunkCountY) * uint64(c.ChunkCountZ)
}

// Validate checks the config for values the map cannot represent.
func (c Config) Validate() error {
	if c.ChunkShift > maxChunkShift {
		return fmt.Errorf("%w: chunk shift %d exceeds %d", ErrInvalidConfig, c.ChunkShift, maxChunkShift)
	}
	if !(c.TileSideInMeters > 0) || math.IsInf(c.TileSideInMeters, 0) {
		return fmt.Errorf("%w: tile side must be a positive finite length, got %v", ErrInvalidConfig, c.TileSideInMeters)
	}
	if c.ChunkCountX == 0 || c.ChunkCountY == 0 || c.ChunkCountZ == 0 {
		return fmt.Errorf("%w: chunk counts must be positive", ErrInvalidConfig)
	}
	if c.ChunkCount() > math.MaxInt32 {
		return fmt.Errorf("%w: %d chunks is too many", ErrInvalidConfig, c.ChunkCount())
	}
	return nil
}

// TileMap is a dense 3D grid of lazily populated chunks. The chunk table and
// every chunk's tiles are carved out of the arena passed to NewTileMap.
type TileMap struct {
	arena *memory.Arena

	chunkShift uint32
	chunkMask  uint32
	chunkDim   uint32

	tileSideInMeters float64

	chunkCountX uint32
	chunkCountY uint32
	chunkCountZ uint32

	// One slot per chunk, indexed (z, y, x). A slot holds the arena offset
	// of the chunk's tiles plus one; zero means not yet populated.
	chunks    memory.Uint32View
	populated int
}

// NewTileMap reserves the chunk table in arena and returns an empty map.
func NewTileMap(arena *memory.Arena, cfg Config) (*TileMap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if uint64(arena.Size()) >= math.MaxUint32 {
		return nil, fmt.Errorf("%w: arena of %d bytes cannot be addressed by chunk slots", ErrInvalidConfig, arena.Size())
	}

	table, err := memory.PushArray[uint32](arena, int(cfg.ChunkCount()))
	if err != nil {
		return nil, fmt.Errorf("tile: reserve chunk table: %w", err)
	}
	chunks := arena.Uint32s(table)
	chunks.Fill(0)

	dim := uint32(1) << cfg.ChunkShift
	return &TileMap{
		arena:            arena,
		chunkShift:       cfg.ChunkShift,
		chunkMask:        dim - 1,
		chunkDim:         dim,
		tileSideInMeters: cfg.TileSideInMeters,
		chunkCountX:      cfg.ChunkCountX,
		chunkCountY:      cfg.ChunkCountY,
		chunkCountZ:      cfg.ChunkCountZ,
		chunks:           chunks,
	}, nil
}

// ChunkDim returns the chunk side length in tiles.
func (m *TileMap) ChunkDim() uint32 { return m.chunkDim }

// ChunkShift returns log2 of the chunk side length.
func (m *TileMap) ChunkShift() uint32 { return m.chunkShift }

// TileSideInMeters returns the metric size of one tile.
func (m *TileMap) TileSideInMeters() float64 { return m.tileSideInMeters }

// ChunkCounts returns the extents of the chunk grid.
func (m *TileMap) ChunkCounts() (x, y, z uint32) {
	return m.chunkCountX, m.chunkCountY, m.chunkCountZ
}

// PopulatedChunks returns how many chunks have tile storage.
func (m *TileMap) PopulatedChunks() int { return m.populated }

// ChunkPositionFor splits an absolute tile coordinate. Z is a floor index
// and passes through unchanged.
func (m *TileMap) ChunkPositionFor(absX, absY, absZ uint32) ChunkPosition {
	return ChunkPosition{
		ChunkX: absX >> m.chunkShift,
		ChunkY: absY >> m.chunkShift,
		ChunkZ: absZ,
		RelX:   absX & m.chunkMask,
		RelY:   absY & m.chunkMask,
	}
}

func (m *TileMap) chunkIndex(cx, cy, cz uint32) (int, bool) {
	if cx >= m.chunkCountX || cy >= m.chunkCountY || cz >= m.chunkCountZ {
		return 0, false
	}
	idx := uint64(cz)*uint64(m.chunkCountY)*uint64(m.chunkCountX) +
		uint64(cy)*uint64(m.chunkCountX) +
		uint64(cx)
	return int(idx), true
}

func (m *TileMap) chunkAt(idx int) Chunk {
	slot := m.chunks.Get(idx)
	if slot == 0 {
		return Chunk{dim: m.chunkDim}
	}
	b := memory.Block{Offset: int(slot - 1), Size: int(m.chunkDim*m.chunkDim) * 4}
	return Chunk{tiles: m.arena.Uint32s(b), dim: m.chunkDim}
}

// TileChunk returns the chunk at the given chunk coordinates. The boolean is
// false at and beyond the world edge.
func (m *TileMap) TileChunk(cx, cy, cz uint32) (Chunk, bool) {
	idx, ok := m.chunkIndex(cx, cy, cz)
	if !ok {
		return Chunk{}, false
	}
	return m.chunkAt(idx), true
}

// TileValueAbs returns the tile at an absolute coordinate. Tiles outside the
// map and tiles in chunks that were never written read as Unknown.
func (m *TileMap) TileValueAbs(absX, absY, absZ uint32) Value {
	cp := m.ChunkPositionFor(absX, absY, absZ)
	chunk, ok := m.TileChunk(cp.ChunkX, cp.ChunkY, cp.ChunkZ)
	if !ok {
		return Unknown
	}
	return chunk.Value(cp.RelX, cp.RelY)
}

// TileValue returns the tile under pos.
func (m *TileMap) TileValue(pos Position) Value {
	return m.TileValueAbs(pos.AbsTileX, pos.AbsTileY, pos.AbsTileZ)
}

// IsTileValueEmpty reports whether v can be walked on.
func (m *TileMap) IsTileValueEmpty(v Value) bool {
	return v.Walkable()
}

// IsPointEmpty reports whether the tile under pos can be walked on.
func (m *TileMap) IsPointEmpty(pos Position) bool {
	return m.IsTileValueEmpty(m.TileValue(pos))
}

// SetTileValue writes v at an absolute coordinate. The first write into a
// chunk allocates its tiles from the arena and fills them with Open before
// the requested cell is overwritten.
func (m *TileMap) SetTileValue(absX, absY, absZ uint32, v Value) error {
	cp := m.ChunkPositionFor(absX, absY, absZ)
	idx, ok := m.chunkIndex(cp.ChunkX, cp.ChunkY, cp.ChunkZ)
	if !ok {
		return fmt.Errorf("%w: tile (%d,%d,%d) is in chunk (%d,%d,%d), extents (%d,%d,%d)",
			ErrChunkOutOfRange, absX, absY, absZ,
			cp.ChunkX, cp.ChunkY, cp.ChunkZ,
			m.chunkCountX, m.chunkCountY, m.chunkCountZ)
	}

	if m.chunks.Get(idx) == 0 {
		b, err := memory.PushArray[uint32](m.arena, int(m.chunkDim*m.chunkDim))
		if err != nil {
			return fmt.Errorf("tile: populate chunk (%d,%d,%d): %w", cp.ChunkX, cp.ChunkY, cp.ChunkZ, err)
		}
		m.arena.Uint32s(b).Fill(uint32(Open))
		m.chunks.Set(idx, uint32(b.Offset)+1)
		m.populated++
	}

	m.chunkAt(idx).set(cp.RelX, cp.RelY, v)
	return nil
}
