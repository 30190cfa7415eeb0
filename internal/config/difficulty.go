package config

import "math"

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Pace returns the number of frames per simulation tick.
// The pace shortens as difficulty rises and never drops below minPace.
func (d *DifficultyManager) Pace(basePace, minPace int, score int, ticks uint64) int {
	minPace = max(1, minPace)
	level := d.Level(score, ticks)
	reduction := int(math.Round(level * float64(d.cfg.Scaling.PaceReduction)))
	return max(minPace, basePace-reduction)
}

// MonsterCap returns the generator monster cap for the current difficulty.
func (d *DifficultyManager) MonsterCap(baseCap int, score int, ticks uint64) int {
	level := d.Level(score, ticks)
	return max(0, baseCap+int(level*float64(d.cfg.Scaling.MonsterBonus)))
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
