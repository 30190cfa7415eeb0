package digger

import "github.com/vovakirdan/digger/internal/games/digger/sim"

// StateType represents the current game phase.
type StateType string

const (
	StatePlaying      StateType = "playing"
	StateLevelCleared StateType = "level_cleared"
	StateGameOver     StateType = "game_over"
	StateWin          StateType = "win"
	StatePaused       StateType = "paused"
	StatePausedSmall  StateType = "paused_small_window"
	StateLoadFailed   StateType = "load_failed"
)

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Frame      uint64
	Mode       Mode
	Level      string
	LevelIndex int
	Seed       int64
	Score      int
	Pace       int
	Latched    sim.Dir
	State      StateType
	Sim        sim.Snapshot
}

// Phase returns the current game phase.
func (g *Game) Phase() StateType {
	switch {
	case g.loadErr != nil:
		return StateLoadFailed
	case g.tooSmall:
		return StatePausedSmall
	case g.won:
		return StateWin
	case g.gameOver:
		return StateGameOver
	case g.levelCleared:
		return StateLevelCleared
	case g.paused:
		return StatePaused
	}
	return StatePlaying
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:      g.frame,
		Mode:       g.mode,
		Level:      g.level.ID,
		LevelIndex: g.levelIndex,
		Seed:       g.seed,
		Score:      g.Score(),
		Pace:       g.pace,
		Latched:    g.latched,
		State:      g.Phase(),
	}
	if g.sim != nil {
		snap.Sim = g.sim.Snapshot()
	}
	return snap
}
