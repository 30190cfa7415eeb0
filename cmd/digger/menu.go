package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/platform/tui"
	"github.com/vovakirdan/digger/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Digger with a level picker menu",
	Long: `Start Digger in interactive menu mode.

Pick a campaign level to start from, or the endless random maps.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Start playing
  Tab          - Scoreboard
  Q            - Quit

Examples:
  digger menu
  digger menu --fps 20
  digger menu --levels ./levels --record ~/.digger/replays`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagRecordDir, "record", "", "Directory to record games into")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger := newLogger("digger")
	lvls := campaign(logger)
	store := openStore()
	cfg := runtimeConfig()

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(lvls, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants scoreboard
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.GameID == "" {
			break
		}

		// Create game instance
		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed and start level for each game
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		cfg.Level = menuResult.LevelID

		// Run the game
		if err := tui.Run(game, store, cfg, modelOptions(logger)...); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
