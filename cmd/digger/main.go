// digger is a terminal tile-grid digging game.
//
// Usage:
//
//	digger list              - List games and campaign levels
//	digger play [level]      - Play the campaign, optionally from a level
//	digger menu              - Start menu to pick levels interactively
//	digger serve             - Start SSH server for remote play
//	digger ws                - Start websocket server for headless play
//	digger scores [game]     - Show high scores and recent runs
//	digger replay <file>     - Verify or inspect a recorded game
//	digger gen               - Generate a random level file
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for generated maps
//	--db <path>         - Set database path (default: ~/.digger/scores.db)
//	--config <path>     - Custom game config YAML
//	--levels <dir>      - Campaign level directory
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/config"
	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagTheme      string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "digger",
	Short: "Digger - dig for gold in your terminal",
	Long: `Digger is a terminal game on a tile grid: dig through terrain,
collect the gold, drop sacks on monsters and stay alive.

Available commands:
  list     - Show games and campaign levels
  play     - Play the campaign or random maps
  menu     - Interactive level picker menu
  serve    - Start SSH server for remote play
  ws       - Start websocket server for headless play
  scores   - View high scores and recent runs
  replay   - Verify or inspect recorded games
  gen      - Generate a random level file

Examples:
  digger play
  digger play 02-sacks --difficulty hard
  digger play --random --seed 42
  digger menu
  digger serve --ssh :2222
  digger replay verify ~/.digger/replays/digger_1700000000.jsonl.zst`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		digger.SetConfigPath(flagConfig)
		digger.SetDifficultyPreset(flagDifficulty)
		digger.SetLevelsDir(flagLevelsDir)
		if flagTheme != "" {
			return tui.SetThemeByName(flagTheme)
		}
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for random maps (0 = based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.digger/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Campaign level directory (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme: default, mono")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(genCmd)
}

// newLogger builds the CLI logger from --log-level.
func newLogger(prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// gameConfig loads the game config with the CLI overrides applied.
func gameConfig() config.DiggerConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	config.ApplyPreset(&cfg, config.ParsePreset(flagDifficulty))
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	return cfg
}

// campaign loads the levels played by the campaign mode.
func campaign(logger *log.Logger) []levels.Level {
	lvls, err := levels.LoadCampaign(gameConfig().Levels.Dir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	return lvls
}
