package tile

import "math"

// Position is a world location: an absolute tile plus a metric offset from
// that tile's centre. Canonical positions keep both offsets within
// [-TileSideInMeters/2, +TileSideInMeters/2].
type Position struct {
	AbsTileX uint32
	AbsTileY uint32
	AbsTileZ uint32

	OffsetX float64
	OffsetY float64
}

// CenteredPosition returns the position at the centre of a tile.
func CenteredPosition(absX, absY, absZ uint32) Position {
	return Position{AbsTileX: absX, AbsTileY: absY, AbsTileZ: absZ}
}

// Difference is a metric displacement between two positions.
type Difference struct {
	DX, DY, DZ float64
}

// RecanonicalizeCoord moves whole tiles out of offset and into tile.
// The shift is offset/side rounded half to even, so any displacement size is
// handled in one step and a canonical pair is left untouched. Tile
// coordinates wrap around modulo 2^32. A NaN or infinite offset snaps to the
// centre of the current tile.
func (m *TileMap) RecanonicalizeCoord(tile uint32, offset float64) (uint32, float64) {
	side := m.tileSideInMeters
	half := 0.5 * side

	shift := math.RoundToEven(offset / side)
	if math.IsNaN(shift) || math.IsInf(shift, 0) {
		return tile, 0
	}
	// Reduce before converting: int64(shift) is undefined past 2^63.
	delta := int64(math.Mod(shift, 1<<32))
	tile = uint32(int64(tile) + delta)
	offset -= shift * side

	// Float error can push the remainder a hair past the half-tile bound.
	if offset > half {
		offset = half
	} else if offset < -half {
		offset = -half
	}
	return tile, offset
}

// RecanonicalizePosition canonicalizes both horizontal axes of pos.
// Z is never touched; floor changes are explicit game logic.
func (m *TileMap) RecanonicalizePosition(pos Position) Position {
	pos.AbsTileX, pos.OffsetX = m.RecanonicalizeCoord(pos.AbsTileX, pos.OffsetX)
	pos.AbsTileY, pos.OffsetY = m.RecanonicalizeCoord(pos.AbsTileY, pos.OffsetY)
	return pos
}

// Offset returns pos moved by (dx, dy) meters, canonicalized.
func (m *TileMap) Offset(pos Position, dx, dy float64) Position {
	pos.OffsetX += dx
	pos.OffsetY += dy
	return m.RecanonicalizePosition(pos)
}

// IsCanonical reports whether both offsets are within half a tile.
func (m *TileMap) IsCanonical(pos Position) bool {
	half := 0.5 * m.tileSideInMeters
	return pos.OffsetX >= -half && pos.OffsetX <= half &&
		pos.OffsetY >= -half && pos.OffsetY <= half
}

// AreOnSameTile reports whether a and b share all three tile coordinates.
func AreOnSameTile(a, b Position) bool {
	return a.AbsTileX == b.AbsTileX &&
		a.AbsTileY == b.AbsTileY &&
		a.AbsTileZ == b.AbsTileZ
}

// Subtract returns the metric displacement a - b.
func (m *TileMap) Subtract(a, b Position) Difference {
	dTileX := float64(a.AbsTileX) - float64(b.AbsTileX)
	dTileY := float64(a.AbsTileY) - float64(b.AbsTileY)
	dTileZ := float64(a.AbsTileZ) - float64(b.AbsTileZ)

	side := m.tileSideInMeters
	return Difference{
		DX: side*dTileX + (a.OffsetX - b.OffsetX),
		DY: side*dTileY + (a.OffsetY - b.OffsetY),
		DZ: side * dTileZ,
	}
}
