package dungeon

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tilecrawl/internal/config"
	"github.com/vovakirdan/tilecrawl/internal/memory"
	"github.com/vovakirdan/tilecrawl/internal/tile"
)

// testConfig is a small world that generates quickly.
func testConfig() config.DungeonConfig {
	cfg := config.DefaultDungeonConfig()
	cfg.World.Screens = 20
	cfg.Map.ChunkCountX = 32
	cfg.Map.ChunkCountY = 32
	cfg.Memory.PermanentStorageMB = 1
	return cfg
}

func mustGenerate(t *testing.T, cfg config.DungeonConfig, seed int64) *World {
	t.Helper()
	w, err := GenerateWorld(make([]byte, memory.Megabytes(cfg.Memory.PermanentStorageMB)), cfg, seed)
	if err != nil {
		t.Fatalf("GenerateWorld() error = %v", err)
	}
	return w
}

func TestGenerateWorldDeterministic(t *testing.T) {
	cfg := testConfig()
	a := mustGenerate(t, cfg, 7)
	b := mustGenerate(t, cfg, 7)

	if a.RoomCount() != b.RoomCount() {
		t.Fatalf("RoomCount mismatch: %d vs %d", a.RoomCount(), b.RoomCount())
	}
	for z := uint32(0); z < 2; z++ {
		rowsA, rowsB := a.FloorASCII(z), b.FloorASCII(z)
		if len(rowsA) != len(rowsB) {
			t.Fatalf("floor %d height mismatch: %d vs %d", z, len(rowsA), len(rowsB))
		}
		for i := range rowsA {
			if rowsA[i] != rowsB[i] {
				t.Fatalf("floor %d row %d differs:\n%s\n%s", z, i, rowsA[i], rowsB[i])
			}
		}
	}
}

func TestGenerateWorldRoomChain(t *testing.T) {
	cfg := testConfig()
	cfg.World.Rubble.Enabled = false
	w := mustGenerate(t, cfg, 3)
	tm := w.TileMap

	if w.RoomCount() != cfg.World.Screens {
		t.Fatalf("RoomCount() = %d, expected %d", w.RoomCount(), cfg.World.Screens)
	}
	if first := w.Room(0); first != (Room{}) {
		t.Errorf("first room = %+v, expected origin", first)
	}

	sw, sh := w.ScreenSize()
	midX, midY := sw/2, sh/2
	at := func(r Room, tx, ty uint32) tile.Value {
		return tm.TileValueAbs(r.ScreenX*sw+tx, r.ScreenY*sh+ty, r.Z)
	}

	for i := 0; i+1 < w.RoomCount(); i++ {
		cur, next := w.Room(i), w.Room(i+1)
		switch {
		case next.Z != cur.Z:
			if next.ScreenX != cur.ScreenX || next.ScreenY != cur.ScreenY {
				t.Fatalf("room %d: stairs must stay on the same screen, %+v -> %+v", i, cur, next)
			}
			up, down := at(cur, 10, 6), at(next, 10, 6)
			if cur.Z == 0 && (up != tile.StairsUp || down != tile.StairsDown) {
				t.Errorf("room %d: stairs = %v/%v, expected up/down", i, up, down)
			}
			if cur.Z == 1 && (up != tile.StairsDown || down != tile.StairsUp) {
				t.Errorf("room %d: stairs = %v/%v, expected down/up", i, up, down)
			}
		case next.ScreenX == cur.ScreenX+1:
			if at(cur, sw-1, midY) != tile.Open || at(next, 0, midY) != tile.Open {
				t.Errorf("room %d: missing door to the right", i)
			}
		case next.ScreenY == cur.ScreenY+1:
			if at(cur, midX, sh-1) != tile.Open || at(next, midX, 0) != tile.Open {
				t.Errorf("room %d: missing door to the top", i)
			}
		default:
			t.Fatalf("room %d: %+v -> %+v is not a chain step", i, cur, next)
		}
	}

	// Corners are always walls.
	for i := 0; i < w.RoomCount(); i++ {
		r := w.Room(i)
		for _, c := range [][2]uint32{{0, 0}, {sw - 1, 0}, {0, sh - 1}, {sw - 1, sh - 1}} {
			if v := at(r, c[0], c[1]); v != tile.Wall {
				t.Errorf("room %d corner %v = %v, expected wall", i, c, v)
			}
		}
	}
}

// reachableRooms walks every walkable tile from the start tile, following
// stairs between floors, and returns the rooms it touched.
func reachableRooms(w *World, start tile.Position) map[Room]bool {
	tm := w.TileMap
	type key struct{ x, y, z uint32 }

	seen := map[key]bool{}
	rooms := map[Room]bool{}
	queue := []key{{start.AbsTileX, start.AbsTileY, start.AbsTileZ}}
	seen[queue[0]] = true

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		rooms[w.RoomOf(tile.CenteredPosition(k.x, k.y, k.z))] = true

		next := []key{{k.x + 1, k.y, k.z}, {k.x - 1, k.y, k.z}, {k.x, k.y + 1, k.z}, {k.x, k.y - 1, k.z}}
		switch tm.TileValueAbs(k.x, k.y, k.z) {
		case tile.StairsUp:
			next = append(next, key{k.x, k.y, k.z + 1})
		case tile.StairsDown:
			next = append(next, key{k.x, k.y, k.z - 1})
		}
		for _, n := range next {
			if seen[n] || !tm.IsTileValueEmpty(tm.TileValueAbs(n.x, n.y, n.z)) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return rooms
}

func TestGenerateWorldConnected(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1234} {
		w := mustGenerate(t, testConfig(), seed)
		sw, sh := w.ScreenSize()
		rooms := reachableRooms(w, tile.CenteredPosition(sw/2-2, sh/2, 0))

		for i := 0; i < w.RoomCount(); i++ {
			if r := w.Room(i); !rooms[r] {
				t.Errorf("seed %d: room %d %+v is unreachable", seed, i, r)
			}
		}
		if len(rooms) != w.RoomCount() {
			t.Errorf("seed %d: reached %d rooms, generated %d", seed, len(rooms), w.RoomCount())
		}
	}
}

func TestGenerateWorldRubble(t *testing.T) {
	cfg := testConfig()
	cfg.World.Screens = 1
	cfg.World.Rubble.Threshold = -2 // every free tile turns to rubble
	w := mustGenerate(t, cfg, 5)

	sw, sh := w.ScreenSize()
	for ty := 1; ty < int(sh)-1; ty++ {
		for tx := 1; tx < int(sw)-1; tx++ {
			v := w.TileMap.TileValueAbs(uint32(tx), uint32(ty), 0)
			reserved := reservedTile(tx, ty, cfg.World)
			if reserved && v != tile.Open {
				t.Errorf("reserved tile (%d,%d) = %v, expected open", tx, ty, v)
			}
			if !reserved && v != tile.Wall {
				t.Errorf("free tile (%d,%d) = %v, expected rubble", tx, ty, v)
			}
		}
	}

	cfg.World.Rubble.Enabled = false
	w = mustGenerate(t, cfg, 5)
	for ty := 1; ty < int(sh)-1; ty++ {
		for tx := 1; tx < int(sw)-1; tx++ {
			if v := w.TileMap.TileValueAbs(uint32(tx), uint32(ty), 0); v != tile.Open {
				t.Errorf("without rubble tile (%d,%d) = %v, expected open", tx, ty, v)
			}
		}
	}
}

func TestGenerateWorldBoxedIn(t *testing.T) {
	cfg := testConfig()
	cfg.Map.ChunkCountX = 2 // 32x16 tiles: exactly one room per floor
	cfg.Map.ChunkCountY = 1
	cfg.World.Screens = 10

	cfg.World.Stairs = false
	if w := mustGenerate(t, cfg, 1); w.RoomCount() != 1 {
		t.Errorf("flat boxed world: RoomCount() = %d, expected 1", w.RoomCount())
	}

	cfg.World.Stairs = true
	w := mustGenerate(t, cfg, 1)
	if w.RoomCount() != 2 {
		t.Fatalf("boxed world with stairs: RoomCount() = %d, expected 2", w.RoomCount())
	}
	if w.Room(1) != (Room{Z: 1}) {
		t.Errorf("second room = %+v, expected the origin on floor 1", w.Room(1))
	}
}

func TestGenerateWorldErrors(t *testing.T) {
	cfg := testConfig()

	if _, err := GenerateWorld(nil, cfg, 1); !errors.Is(err, ErrNoMemory) {
		t.Errorf("nil storage: error = %v, expected ErrNoMemory", err)
	}

	if _, err := GenerateWorld(make([]byte, memory.Kilobytes(4)), cfg, 1); !errors.Is(err, memory.ErrOutOfMemory) {
		t.Errorf("tiny storage: error = %v, expected ErrOutOfMemory", err)
	}

	small := cfg
	small.Map.ChunkCountX = 1
	if _, err := GenerateWorld(make([]byte, memory.Megabytes(1)), small, 1); !errors.Is(err, ErrMapTooSmall) {
		t.Errorf("narrow map: error = %v, expected ErrMapTooSmall", err)
	}
}

func TestFloorASCII(t *testing.T) {
	cfg := testConfig()
	cfg.World.Screens = 1
	cfg.World.Rubble.Enabled = false
	w := mustGenerate(t, cfg, 1)

	rows := w.FloorASCII(0)
	if len(rows) != 9 {
		t.Fatalf("FloorASCII() returned %d rows, expected 9", len(rows))
	}
	if rows[0] != "#################" {
		t.Errorf("top row = %q", rows[0])
	}
	if rows[4] != "#...............#" {
		t.Errorf("middle row = %q", rows[4])
	}
}

func TestArenaStats(t *testing.T) {
	cfg := testConfig()
	w := mustGenerate(t, cfg, 9)

	used, size := w.ArenaStats()
	if size != memory.Megabytes(1) {
		t.Errorf("size = %d, expected 1MB", size)
	}
	table := int(cfg.Map.ChunkCountX*cfg.Map.ChunkCountY*cfg.Map.ChunkCountZ) * 4
	chunks := w.TileMap.PopulatedChunks() * 16 * 16 * 4
	rooms := cfg.World.Screens * 3 * 4
	if used != table+chunks+rooms {
		t.Errorf("used = %d, expected %d (table) + %d (chunks) + %d (rooms)", used, table, chunks, rooms)
	}
}
