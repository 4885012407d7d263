package dungeon

import "github.com/vovakirdan/tilecrawl/internal/tile"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying GameStateType = "playing"
	StatePaused  GameStateType = "paused"
	StateEnded   GameStateType = "ended"
	StateBroken  GameStateType = "broken"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick         uint64
	Mode         Mode
	Player       tile.Position
	Camera       tile.Position
	Facing       Facing
	RoomsVisited int
	RoomCount    int
	FloorChanges int
	ArenaUsed    int
	State        GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.world == nil:
		state = StateBroken
	case g.over:
		state = StateEnded
	case g.paused:
		state = StatePaused
	}

	s := Snapshot{
		Tick:         g.tick,
		Mode:         g.mode,
		Player:       g.player,
		Camera:       g.camera,
		Facing:       g.facing,
		RoomsVisited: len(g.visited),
		FloorChanges: g.floorChanges,
		State:        state,
	}
	if g.world != nil {
		s.RoomCount = g.world.RoomCount()
		s.ArenaUsed, _ = g.world.ArenaStats()
	}
	return s
}
