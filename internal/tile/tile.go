// Package tile implements the chunked tile map and world positions.
//
// Absolute tile coordinates are unsigned 32-bit integers whose high bits
// select a chunk and whose low bits select a tile inside it. A Position pairs
// such a coordinate with a metric offset from the tile centre; positions are
// kept canonical so the offset never leaves half a tile in either direction.
package tile

import "fmt"

// Value is the semantic code stored in a tile.
type Value uint32

// Tile codes. Unknown marks tiles that were never generated, including
// everything outside the map's extents.
const (
	Unknown Value = iota
	Open
	Wall
	StairsUp
	StairsDown
)

// String returns a human-readable name for the tile code.
func (v Value) String() string {
	switch v {
	case Unknown:
		return "unknown"
	case Open:
		return "open"
	case Wall:
		return "wall"
	case StairsUp:
		return "stairs-up"
	case StairsDown:
		return "stairs-down"
	default:
		return fmt.Sprintf("tile(%d)", uint32(v))
	}
}

// Walkable reports whether an entity may stand on a tile with this code.
// Floor and stairs are walkable; walls and unknown tiles block.
func (v Value) Walkable() bool {
	switch v {
	case Open, StairsUp, StairsDown:
		return true
	default:
		return false
	}
}

// IsStairs reports whether the tile changes floor when entered.
func (v Value) IsStairs() bool {
	return v == StairsUp || v == StairsDown
}
