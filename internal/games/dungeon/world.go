package dungeon

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/tilecrawl/internal/config"
	"github.com/vovakirdan/tilecrawl/internal/memory"
	"github.com/vovakirdan/tilecrawl/internal/tile"
)

// Perlin parameters: smoothing, frequency and octave count.
const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = int32(3)
)

var (
	// ErrNoMemory is returned when the platform hands over no storage at all.
	ErrNoMemory = errors.New("dungeon: no permanent storage")
	// ErrMapTooSmall is returned when not even one room fits in the tile map.
	ErrMapTooSmall = errors.New("dungeon: tile map smaller than one room")
)

// Room identifies one generated screen of the world.
type Room struct {
	ScreenX, ScreenY, Z uint32
}

// World owns the tile map and the record of generated rooms. Both live in
// the permanent storage block passed to GenerateWorld.
type World struct {
	storage *memory.Arena // whole permanent storage block
	arena   *memory.Arena // world arena carved out of storage
	TileMap *tile.TileMap

	rooms     memory.Uint32View // ScreenX, ScreenY, Z per room
	roomCount int

	screenW, screenH uint32
}

// RoomCount returns how many rooms the generator laid out.
func (w *World) RoomCount() int { return w.roomCount }

// Room returns the i-th room in generation order.
func (w *World) Room(i int) Room {
	return Room{
		ScreenX: w.rooms.Get(3 * i),
		ScreenY: w.rooms.Get(3*i + 1),
		Z:       w.rooms.Get(3*i + 2),
	}
}

// RoomOf returns the room a position falls into.
func (w *World) RoomOf(pos tile.Position) Room {
	return Room{
		ScreenX: pos.AbsTileX / w.screenW,
		ScreenY: pos.AbsTileY / w.screenH,
		Z:       pos.AbsTileZ,
	}
}

// ScreenSize returns the room size in tiles.
func (w *World) ScreenSize() (uint32, uint32) { return w.screenW, w.screenH }

// ArenaStats reports how much of the storage block the world occupies.
func (w *World) ArenaStats() (used, size int) {
	return w.storage.Used() - w.arena.Size() + w.arena.Used(), w.storage.Size()
}

func tileConfig(m config.MapConfig) tile.Config {
	return tile.Config{
		ChunkShift:       m.ChunkShift,
		TileSideInMeters: m.TileSideInMeters,
		ChunkCountX:      m.ChunkCountX,
		ChunkCountY:      m.ChunkCountY,
		ChunkCountZ:      m.ChunkCountZ,
	}
}

// Room choices made by the generator after each screen.
const (
	goTop = iota
	goRight
	goStairs
	goNowhere
)

// doors tracks which openings the screen being built has.
type doors struct {
	left, right, bottom, top bool
	up, down                 bool
}

// GenerateWorld lays out a chain of rooms inside storage. The chain starts
// at screen (0,0) on floor 0 and each step goes right, up a screen, or
// through stairs to the other floor. Every room is walled in except for
// doors into its neighbours in the chain.
func GenerateWorld(storage []byte, cfg config.DungeonConfig, seed int64) (*World, error) {
	if len(storage) == 0 {
		return nil, ErrNoMemory
	}

	root := memory.NewArena(storage)
	wc := cfg.World

	roomsBlock, err := memory.PushArray[uint32](root, 3*wc.Screens)
	if err != nil {
		return nil, fmt.Errorf("dungeon: reserve room table: %w", err)
	}
	worldArena, err := root.SubArena(root.Remaining())
	if err != nil {
		return nil, fmt.Errorf("dungeon: carve world arena: %w", err)
	}
	tm, err := tile.NewTileMap(worldArena, tileConfig(cfg.Map))
	if err != nil {
		return nil, err
	}

	w := &World{
		storage: root,
		arena:   worldArena,
		TileMap: tm,
		rooms:   root.Uint32s(roomsBlock),
		screenW: uint32(wc.ScreenTilesX),
		screenH: uint32(wc.ScreenTilesY),
	}

	rng := rand.New(rand.NewSource(seed))
	var noise *perlin.Perlin
	if wc.Rubble.Enabled {
		noise = perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	}

	cx, cy, _ := tm.ChunkCounts()
	screensX := (uint64(cx) << tm.ChunkShift()) / uint64(w.screenW)
	screensY := (uint64(cy) << tm.ChunkShift()) / uint64(w.screenH)
	if screensX == 0 || screensY == 0 {
		return nil, fmt.Errorf("%w: %dx%d chunks of %d tiles", ErrMapTooSmall, cx, cy, tm.ChunkDim())
	}
	maxScreenX := uint32(min(screensX-1, math.MaxUint32))
	maxScreenY := uint32(min(screensY-1, math.MaxUint32))

	var screenX, screenY, z uint32
	var d doors
	for i := 0; i < wc.Screens; i++ {
		choice := goNowhere
		if i < wc.Screens-1 {
			choice = pickDirection(rng, d, wc.Stairs, screenX < maxScreenX, screenY < maxScreenY)
		}

		switch choice {
		case goStairs:
			if z == 0 {
				d.up = true
			} else {
				d.down = true
			}
		case goRight:
			d.right = true
		case goTop:
			d.top = true
		}

		if err := w.buildRoom(screenX, screenY, z, d, wc, noise); err != nil {
			return nil, err
		}
		w.rooms.Set(3*i, screenX)
		w.rooms.Set(3*i+1, screenY)
		w.rooms.Set(3*i+2, z)
		w.roomCount++

		if choice == goNowhere {
			break
		}

		d.left = d.right
		d.bottom = d.top
		if choice == goStairs {
			d.up, d.down = d.down, d.up
		} else {
			d.up, d.down = false, false
		}
		d.right, d.top = false, false

		switch choice {
		case goStairs:
			z ^= 1
		case goRight:
			screenX++
		case goTop:
			screenY++
		}
	}
	return w, nil
}

// pickDirection chooses where the chain goes next. A room that already has
// stairs never gets a second pair. Directions that would leave the map are
// skipped; goNowhere means the chain is boxed in.
func pickDirection(rng *rand.Rand, d doors, stairs, canRight, canTop bool) int {
	options := make([]int, 0, 3)
	if canTop {
		options = append(options, goTop)
	}
	if canRight {
		options = append(options, goRight)
	}
	if stairs && !d.up && !d.down {
		options = append(options, goStairs)
	}
	if len(options) == 0 {
		return goNowhere
	}
	return options[rng.Intn(len(options))]
}

func (w *World) buildRoom(screenX, screenY, z uint32, d doors, wc config.WorldConfig, noise *perlin.Perlin) error {
	width, height := wc.ScreenTilesX, wc.ScreenTilesY
	midX, midY := width/2, height/2

	for ty := 0; ty < height; ty++ {
		for tx := 0; tx < width; tx++ {
			absX := screenX*w.screenW + uint32(tx)
			absY := screenY*w.screenH + uint32(ty)

			v := tile.Open
			switch {
			case d.down && tx == wc.StairsX && ty == wc.StairsY:
				v = tile.StairsDown
			case d.up && tx == wc.StairsX && ty == wc.StairsY:
				v = tile.StairsUp
			case tx == 0 && (!d.left || ty != midY),
				tx == width-1 && (!d.right || ty != midY),
				ty == 0 && (!d.bottom || tx != midX),
				ty == height-1 && (!d.top || tx != midX):
				v = tile.Wall
			case noise != nil && !reservedTile(tx, ty, wc) &&
				noise.Noise2D(float64(absX)*wc.Rubble.Scale, float64(absY)*wc.Rubble.Scale+float64(z)*97.0) > wc.Rubble.Threshold:
				v = tile.Wall
			}

			if err := w.TileMap.SetTileValue(absX, absY, z, v); err != nil {
				return fmt.Errorf("dungeon: build room (%d,%d,%d): %w", screenX, screenY, z, err)
			}
		}
	}
	return nil
}

// reservedTile reports whether rubble must stay off a room tile. The middle
// row and column connect every door, and a lane joins the stairs to the
// middle row, so every room stays traversable.
func reservedTile(tx, ty int, wc config.WorldConfig) bool {
	midX, midY := wc.ScreenTilesX/2, wc.ScreenTilesY/2
	if tx <= 1 || ty <= 1 || tx >= wc.ScreenTilesX-2 || ty >= wc.ScreenTilesY-2 {
		return true
	}
	if tx == midX || ty == midY {
		return true
	}
	if abs(tx-wc.StairsX) <= 1 && abs(ty-wc.StairsY) <= 1 {
		return true
	}
	if tx == wc.StairsX && between(ty, midY, wc.StairsY) {
		return true
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func between(v, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

// FloorASCII returns the generated part of floor z as text, top row first.
// Walls are '#', open floor '.', stairs '<' and '>', untouched space ' '.
func (w *World) FloorASCII(z uint32) []string {
	var maxX, maxY uint32
	for i := 0; i < w.roomCount; i++ {
		r := w.Room(i)
		maxX = max(maxX, r.ScreenX)
		maxY = max(maxY, r.ScreenY)
	}
	width := (maxX + 1) * w.screenW
	height := (maxY + 1) * w.screenH

	rows := make([]string, 0, height)
	var sb strings.Builder
	for y := int64(height) - 1; y >= 0; y-- {
		sb.Reset()
		for x := uint32(0); x < width; x++ {
			sb.WriteByte(asciiFor(w.TileMap.TileValueAbs(x, uint32(y), z)))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func asciiFor(v tile.Value) byte {
	switch v {
	case tile.Wall:
		return '#'
	case tile.Open:
		return '.'
	case tile.StairsUp:
		return '<'
	case tile.StairsDown:
		return '>'
	}
	return ' '
}
