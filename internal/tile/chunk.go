package tile

import "github.com/vovakirdan/tilecrawl/internal/memory"

// ChunkPosition is an absolute tile coordinate split into its chunk and the
// tile's position inside that chunk.
type ChunkPosition struct {
	ChunkX, ChunkY, ChunkZ uint32
	RelX, RelY             uint32
}

// Chunk is a ChunkDim x ChunkDim square of tiles. Its tiles live in the
// arena and are absent until the first write into the chunk.
type Chunk struct {
	tiles memory.Uint32View
	dim   uint32
}

// Populated reports whether the chunk's tile storage has been allocated.
func (c Chunk) Populated() bool {
	return c.tiles.Len() > 0
}

// Value returns the tile at (relX, relY), or Unknown if the chunk has no
// storage yet.
func (c Chunk) Value(relX, relY uint32) Value {
	if !c.Populated() || relX >= c.dim || relY >= c.dim {
		return Unknown
	}
	return Value(c.tiles.Get(int(relY*c.dim + relX)))
}

func (c Chunk) set(relX, relY uint32, v Value) {
	c.tiles.Set(int(relY*c.dim+relX), uint32(v))
}
