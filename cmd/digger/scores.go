package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/games/digger"
	"github.com/vovakirdan/digger/internal/registry"
	"github.com/vovakirdan/digger/internal/storage"
)

var (
	flagScoresLimit int
	flagRunsLimit   int
	flagClear       bool
	flagAllScores   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and recent runs",
	Long: `Display the top high scores and the most recent runs for a game
(default: digger).

Examples:
  digger scores
  digger scores digger_random
  digger scores --runs 20
  digger scores --all
  digger scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of high scores to show")
	scoresCmd.Flags().IntVar(&flagRunsLimit, "runs", 5, "Number of recent runs to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and runs for the game")
	scoresCmd.Flags().BoolVar(&flagAllScores, "all", false, "Show every recorded score instead of the top --limit")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := digger.IDCampaign
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'digger list' to see available games.")
		os.Exit(1)
	}

	// Get game title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared scores for %s.\n", title)
		return
	}

	var scores []storage.ScoreEntry
	if flagAllScores {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'digger play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
		for i, entry := range scores {
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
		}
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Avg: %.0f  Wins: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.Wins)
	}

	runs, err := store.RecentRuns(gameID, flagRunsLimit)
	if err != nil || len(runs) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Println()
	fmt.Printf("  %-16s  %-12s  %-9s  %-6s  %-6s  %s\n", "Date", "Level", "Outcome", "Score", "Ticks", "Replay")
	for _, run := range runs {
		replayPath := run.ReplayPath
		if replayPath == "" {
			replayPath = "-"
		}
		fmt.Printf("  %-16s  %-12s  %-9s  %-6d  %-6d  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.LevelID, run.Outcome, run.Score, run.Ticks, replayPath)
	}
}
