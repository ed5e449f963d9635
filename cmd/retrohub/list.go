package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows a list of all games registered in RetroHub, with their aliases.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-16s  %-10s  %s\n", maxIDLen, "ID", "Title", "Aliases", "Description")
	fmt.Printf("  %-*s  %-16s  %-10s  %s\n", maxIDLen, "--", "-----", "-------", "-----------")

	for _, g := range games {
		fmt.Printf("  %-*s  %-16s  %-10s  %s\n", maxIDLen, g.ID, g.Title, strings.Join(g.Aliases, ","), g.Description)
	}

	fmt.Println()
	fmt.Println("Run 'retrohub play <id>' to play a game.")
}
