package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games and campaign levels",
	Long: `Shows the registered game modes and the levels of the campaign
(built-in, or from --levels).`,
	Run: runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	lvls := campaign(newLogger("digger"))

	fmt.Println()
	fmt.Println("Campaign levels:")
	fmt.Println()

	maxIDLen = 2
	for _, lvl := range lvls {
		maxIDLen = max(maxIDLen, len(lvl.ID))
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Size", "Name")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "----", "----")
	for _, lvl := range lvls {
		size := fmt.Sprintf("%dx%d", lvl.Width, lvl.Height)
		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, lvl.ID, size, lvl.Name)
	}

	fmt.Println()
	fmt.Println("Run 'digger play <level>' to start from a level.")
}
