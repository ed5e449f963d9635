package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/platform/tui"
	"github.com/vovakirdan/retrohub/internal/registry"
	"github.com/vovakirdan/retrohub/internal/submit"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start RetroHub with a game picker menu",
	Long: `Start RetroHub in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  retrohub menu
  retrohub menu --fps 30
  retrohub menu --player alice --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	player := playerName()
	opts := submitOptions(store, logger)
	opts.User = player
	deps := tui.Deps{
		Store:    store,
		Recorder: submit.NewRecorder(opts),
		Logger:   logger,
	}

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg, player)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Error("scoreboard", "error", err)
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("create game", "game", menuResult.GameID, "error", err)
			continue
		}

		if ds, ok := game.(tui.DifficultySetter); ok && flagDifficulty == "" {
			preset, err := tui.RunDifficultySelector(game.Title(), cfg)
			if err != nil {
				return err
			}
			if preset == nil {
				continue
			}
			ds.SetDifficulty(*preset)
		}

		// Fresh seed for each game unless one was pinned.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, deps, cfg); err != nil {
			logger.Error("run game", "game", game.ID(), "error", err)
		}
	}
}
