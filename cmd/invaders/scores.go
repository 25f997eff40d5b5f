package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

var (
	flagScoresLimit int
	flagRecent      bool
	flagInteractive bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded games and the high-score table",
	Long: `Display the best (or most recent) recorded games together with the
persisted high-score table shown on the game-over screen.

Examples:
  invaders scores
  invaders scores --recent --limit 20
  invaders scores -i
  invaders scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of games to list")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "List the most recent games instead of the best")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scoreboard screen")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded games and the high-score table")
}

func runScores(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}
	key := gameCfg.Session.HighScoreKey

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(invaders.ID); err != nil {
			return err
		}
		if err := store.DeletePref(key); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	if flagInteractive {
		cfg := runtimeConfig()
		_, err := tui.RunScoreboard(store, store, key, gameCfg.Session.HighScoreCount, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	var entries []storage.ScoreEntry
	if flagRecent {
		entries, err = store.RecentScores(invaders.ID, flagScoresLimit)
	} else {
		entries, err = store.TopScores(invaders.ID, flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	title := "Best Games"
	if flagRecent {
		title = "Recent Games"
	}
	fmt.Printf("%s - Space Invaders\n\n", title)

	if len(entries) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Run 'invaders play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "Rank", "Score", "Level", "Player", "Date")
		fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %s\n", "----", "-----", "-----", "------", "----")
		for i, e := range entries {
			fmt.Printf("  %-4d  %-8d  %-5d  %-12s  %s\n",
				i+1, e.Score, e.Level, e.Player, e.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	table, err := invaders.LoadHighScoreTable(store, key, gameCfg.Session.HighScoreCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	fmt.Println()
	fmt.Println("High-score table")
	if len(table.ScoreTable) == 0 {
		fmt.Println("  (empty)")
		return nil
	}
	for i, s := range table.Display() {
		fmt.Printf("  %d. %6d\n", i+1, s)
	}
	return nil
}
