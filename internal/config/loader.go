package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name looked up in each search location.
const FileName = "digger.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.digger/configs/digger.yaml -> ./configs/digger.yaml
// -> embedded default -> hardcoded default.
func Load(customPath string) (DiggerConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return DefaultDiggerConfig(), err
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := loadFile(filepath.Join("configs", FileName)); err == nil {
		return cfg, nil
	}

	return Embedded(), nil
}

// Embedded returns the embedded default configuration, falling back to the
// hardcoded one if the embedded YAML cannot be parsed.
func Embedded() DiggerConfig {
	cfg, err := parse(defaultDiggerYAML)
	if err != nil {
		return DefaultDiggerConfig()
	}
	return cfg
}

// loadFile reads and parses a configuration file.
func loadFile(path string) (DiggerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DiggerConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return DiggerConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// parse decodes YAML over the hardcoded defaults, so omitted keys keep
// their default values, then normalizes the result.
func parse(data []byte) (DiggerConfig, error) {
	cfg := DefaultDiggerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DiggerConfig{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize replaces out-of-range values with usable ones.
func (c *DiggerConfig) Normalize() {
	if c.Tick.MoveEveryTicks < 1 {
		c.Tick.MoveEveryTicks = 1
	}
	if c.Tick.MinMoveEveryTicks < 1 {
		c.Tick.MinMoveEveryTicks = 1
	}
	if c.Tick.MinMoveEveryTicks > c.Tick.MoveEveryTicks {
		c.Tick.MinMoveEveryTicks = c.Tick.MoveEveryTicks
	}
	if c.Tick.LevelClearFrames < 0 {
		c.Tick.LevelClearFrames = 0
	}
	if c.Generator.Width < 3 {
		c.Generator.Width = 3
	}
	if c.Generator.Height < 3 {
		c.Generator.Height = 3
	}
	if c.Generator.MaxMonsters < 0 {
		c.Generator.MaxMonsters = 0
	}
	c.Difficulty.InitialLevel = clampF(c.Difficulty.InitialLevel, 0.0, 1.0)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".digger", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DiggerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}

	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust pace and monster cap based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Tick.MoveEveryTicks += 2
		cfg.Generator.MaxMonsters /= 2
	case DifficultyHard:
		cfg.Tick.MoveEveryTicks = max(cfg.Tick.MinMoveEveryTicks, cfg.Tick.MoveEveryTicks-1)
		cfg.Generator.MaxMonsters += cfg.Generator.MaxMonsters / 2
	}
}
