package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Frames per second driven by the platform
	Seed     int64  // RNG seed for generated maps
	Level    string // Level ID to start from; empty starts at the first level
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int    // Current score
	GameOver bool   // Whether the game has ended
	Won      bool   // Whether the last level was cleared
	Paused   bool   // Whether the game is paused
	Level    string // ID of the level being played
	Ticks    uint64 // Simulation ticks advanced on the current level
}

// Finished reports whether no further play is possible without a restart.
func (s GameState) Finished() bool {
	return s.GameOver || s.Won
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State    GameState
	Advanced bool // A simulation tick ran during this frame
}
