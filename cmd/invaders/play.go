package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/platform/tui"
)

var (
	flagSkipMenu bool
	flagPlayer   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play locally",
	Long: `Open the title menu and play in this terminal.

Controls:
  Left/Right, A/D   - Move the base
  Space/Up          - Fire
  P                 - Pause
  Enter/R           - Play again (after game over)
  Esc/B             - Back to menu (paused or game over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - 5 lives, slower grid, fewer missiles
  normal - values from the config file
  hard   - 2 lives, faster grid, more missiles
  fixed  - grid never speeds up

Examples:
  invaders play
  invaders play --skip-menu --seed 42
  invaders play --difficulty easy
  invaders play --config ./my-invaders.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSkipMenu, "skip-menu", false, "Start a game immediately")
	playCmd.Flags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Name recorded with your scores")
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, closeLog = log.New(io.Discard), func() {}
	}
	defer closeLog()

	opts := tui.SessionOptions{
		GameID:         invaders.ID,
		PrefsKey:       gameCfg.Session.HighScoreKey,
		HighScoreCount: gameCfg.Session.HighScoreCount,
		Player:         flagPlayer,
		Logger:         logger,
		SkipMenu:       flagSkipMenu,
	}

	if store := openStore(logger); store != nil {
		defer store.Close()
		opts.Store = store
		opts.Prefs = store
	}

	logger.Info("starting local session", "player", flagPlayer, "fps", flagFPS, "seed", flagSeed)
	if err := tui.RunSession(runtimeConfig(), opts); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
