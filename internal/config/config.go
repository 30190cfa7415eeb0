// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// DiggerConfig contains all configuration for the game.
type DiggerConfig struct {
	Tick       TickConfig       `yaml:"tick"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Levels     LevelsConfig     `yaml:"levels"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TickConfig defines how platform frames map to simulation ticks.
type TickConfig struct {
	MoveEveryTicks    int `yaml:"move_every_ticks"`     // Frames per simulation tick
	MinMoveEveryTicks int `yaml:"min_move_every_ticks"` // Fastest pace difficulty may reach
	LevelClearFrames  int `yaml:"level_clear_frames"`   // Banner duration between levels
}

// GeneratorConfig defines random map parameters.
type GeneratorConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	MaxMonsters int `yaml:"max_monsters"`
}

// LevelsConfig defines where campaign levels come from.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`   // Empty uses the built-in campaign
	Start string `yaml:"start"` // Level ID to start from
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	PaceReduction int `yaml:"pace_reduction"` // Frames removed from the pace at max difficulty
	MonsterBonus  int `yaml:"monster_bonus"`  // Extra generator monsters at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value into a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
