package config

import (
	_ "embed"
)

//go:embed defaults/digger.yaml
var defaultDiggerYAML []byte

// DefaultDiggerConfig returns the hardcoded configuration.
// It matches defaults/digger.yaml and is used when the embedded file cannot be parsed.
func DefaultDiggerConfig() DiggerConfig {
	return DiggerConfig{
		Tick: TickConfig{
			MoveEveryTicks:    6,
			MinMoveEveryTicks: 2,
			LevelClearFrames:  60,
		},
		Generator: GeneratorConfig{
			Width:       20,
			Height:      20,
			MaxMonsters: 20,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 300,
			},
			Scaling: ScalingConfig{
				PaceReduction: 3,
				MonsterBonus:  10,
			},
		},
	}
}
