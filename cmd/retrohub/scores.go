package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresBoard bool
	flagScoresTotal bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Without arguments, summarize every game played so far. Otherwise display
the top high scores for the specified game, the player
leaderboard across all games, or the global board of the HTTP endpoint.

Examples:
  retrohub scores
  retrohub scores breakout
  retrohub scores breakout --limit 25
  retrohub scores --leaderboard
  retrohub scores --board
  retrohub scores breakout --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show (0 shows every run)")
	scoresCmd.Flags().BoolVar(&flagScoresBoard, "board", false, "Show the global high-score board")
	scoresCmd.Flags().BoolVar(&flagScoresTotal, "leaderboard", false, "Show players ranked by their summed bests")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded run of the game")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer func() { _ = store.Close() }()

	switch {
	case flagScoresBoard:
		return printBoard(store)
	case flagScoresTotal:
		return printLeaderboard(store)
	case len(args) == 0:
		return printSummary(store)
	}

	info, ok := registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown game %q, run 'retrohub list' to see available games", args[0])
	}

	if flagScoresClear {
		if err := store.ClearScores(info.ID); err != nil {
			return err
		}
		fmt.Printf("Cleared all scores for %s.\n", info.Title)
		return nil
	}

	var scores []storage.ScoreEntry
	if flagScoresLimit > 0 {
		scores, err = store.TopScores(info.ID, flagScoresLimit)
	} else {
		scores, err = store.AllScores(info.ID)
	}
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'retrohub play %s' to set the first high score!\n", args[0])
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %-5s  %s\n", "Rank", "Player", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %-5s  %s\n", "----", "------", "-----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-10d  %-5d  %s\n",
			i+1, entry.Player, entry.Score, entry.Level, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(info.ID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d   Runs: %d   Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printBoard(store *storage.Store) error {
	entries, err := store.TopBoard(context.Background(), flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve board: %w", err)
	}

	fmt.Println("Global Board")
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("No scores submitted yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-32s  %-10s  %s\n", "Rank", "Name", "Score", "Date")
	fmt.Printf("  %-4s  %-32s  %-10s  %s\n", "----", "----", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-32s  %-10d  %s\n",
			i+1, e.Name, e.Score, time.Unix(e.TS, 0).Format("2006-01-02 15:04"))
	}
	return nil
}

func printLeaderboard(store *storage.Store) error {
	totals, err := store.PlayerTotals(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve leaderboard: %w", err)
	}

	fmt.Println("Leaderboard")
	fmt.Println()
	if len(totals) == 0 {
		fmt.Println("No named players yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Total", "Games")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "-----")
	for i, p := range totals {
		fmt.Printf("  %-4d  %-16s  %-10d  %d\n", i+1, p.Player, p.Total, p.Games)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieve stats: %w", err)
	}
	plays, err := store.PlayCounts()
	if err != nil {
		return fmt.Errorf("retrieve play counts: %w", err)
	}

	fmt.Println("Games")
	fmt.Println()
	if len(stats) == 0 && len(plays) == 0 {
		fmt.Println("Nothing played yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-6s  %-6s  %-10s  %s\n", "Game", "Plays", "Runs", "Best", "Last played")
	fmt.Printf("  %-20s  %-6s  %-6s  %-10s  %s\n", "----", "-----", "----", "----", "-----------")
	for _, g := range registry.List() {
		st, ok := stats[g.ID]
		if !ok && plays[g.ID] == 0 {
			continue
		}
		last := "-"
		runs, best := 0, 0
		if ok {
			runs, best = st.GamesCount, st.HighScore
			last = st.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-20s  %-6d  %-6d  %-10d  %s\n", g.Title, plays[g.ID], runs, best, last)
	}
	return nil
}
