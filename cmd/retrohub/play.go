package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/platform/tui"
	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/submit"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Left/A, Right/D  - Move the paddle (or use the mouse)
  Space/Click      - Serve the ball
  P                - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit (your score still counts)
  Ctrl+S           - Save a text screenshot

Without --difficulty a picker is shown before games that have presets.

Examples:
  retrohub play breakout
  retrohub play atari-breakout --difficulty hard
  retrohub play breakout --config ./my-breakout.toml
  retrohub play breakout --player alice --endpoint https://example.com/highscores.php`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	if !registry.Exists(args[0]) {
		return fmt.Errorf("unknown game %q, run 'retrohub list' to see available games", args[0])
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := runtimeConfig()

	game, err := registry.Create(args[0])
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	if ds, ok := game.(tui.DifficultySetter); ok && flagDifficulty == "" {
		preset, err := tui.RunDifficultySelector(game.Title(), cfg)
		if err != nil {
			return err
		}
		if preset == nil {
			return nil
		}
		ds.SetDifficulty(*preset)
	}

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	opts := submitOptions(store, logger)
	opts.User = playerName()
	deps := tui.Deps{
		Store:    store,
		Recorder: submit.NewRecorder(opts),
		Logger:   logger,
	}

	logger.Info("starting game", "game", game.ID(), "player", opts.User, "guest", opts.Guest)
	if err := tui.Run(game, deps, cfg); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
