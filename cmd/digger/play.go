package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/platform/tui"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

var (
	flagRandom    bool
	flagRecordDir string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign or random maps",
	Long: `Start playing Digger.

Without arguments the campaign starts at its first level; pass a level ID
(see 'digger list') to start from that level. --random plays endless
generated maps seeded by --seed.

Controls:
  Arrows/WASD/HJKL  - Move
  P/Space           - Pause
  R                 - Restart (after game over or win)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower pace, fewer monsters on random maps
  normal - Default pace, progresses with score
  hard   - Faster pace, more monsters on random maps
  fixed  - No progression, stays at config's pace

Examples:
  digger play
  digger play 03-monsters
  digger play --difficulty hard
  digger play --random --seed 42
  digger play --record ~/.digger/replays`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRandom, "random", false, "Play endless random maps")
	playCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory to record the game into")
}

func runPlay(cmd *cobra.Command, args []string) {
	logger := newLogger("digger")

	gameID := digger.IDCampaign
	if flagRandom {
		gameID = digger.IDRandom
	}

	// Create runtime config
	cfg := runtimeConfig()
	if len(args) == 1 {
		if flagRandom {
			fmt.Fprintln(os.Stderr, "Error: a level cannot be combined with --random")
			os.Exit(1)
		}
		if !hasLevel(campaign(logger), args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'digger list' to see available levels.")
			os.Exit(1)
		}
		cfg.Level = args[0]
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	// Run the game
	runErr := tui.Run(game, store, cfg, modelOptions(logger)...)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database; games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// modelOptions wires logging and optional recording into the game model.
func modelOptions(logger *log.Logger) []tui.ModelOption {
	opts := []tui.ModelOption{tui.WithLogger(logger)}
	if flagRecordDir != "" {
		opts = append(opts, tui.WithReplayDir(expandHome(flagRecordDir)))
	}
	return opts
}

func hasLevel(lvls []levels.Level, id string) bool {
	for _, lvl := range lvls {
		if lvl.ID == id {
			return true
		}
	}
	return false
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
