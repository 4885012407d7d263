package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for world generation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TargetDT returns the nominal seconds per tick.
func (c RuntimeConfig) TargetDT() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameMemory is the block the platform hands to a game. The game carves
// all of its world storage out of PermanentStorage; the platform owns the
// block for the lifetime of the session.
type GameMemory struct {
	PermanentStorage []byte
}

// NewGameMemory allocates a zeroed block of the given size.
func NewGameMemory(size int) *GameMemory {
	return &GameMemory{PermanentStorage: make([]byte, size)}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Rooms explored in this run
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
