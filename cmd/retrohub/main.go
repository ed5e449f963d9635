// retrohub is a terminal arcade with a Breakout simulation, local and
// SSH play, and a high-score HTTP endpoint.
//
// Usage:
//
//	retrohub list              - List available games
//	retrohub play <game>       - Play a game
//	retrohub menu              - Start menu to pick games interactively
//	retrohub serve             - Start SSH server for remote play
//	retrohub highscores        - Serve the high-score HTTP endpoint
//	retrohub scores <game>     - Show high scores for a game
//	retrohub config            - Print the effective game config
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.retrohub/scores.db)
//	--config <path>      - Custom game config (YAML or TOML)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard
//	--player <name>      - Record scores under this name (default: $USER)
//	--guest              - Play without recording scores
//	--endpoint <url>     - Post new bests to this high-score URL
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/retrohub/internal/config"
	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/games/breakout"
	"github.com/vovakirdan/retrohub/internal/storage"
	"github.com/vovakirdan/retrohub/internal/submit"
)

// appName names the local best-score store.
const appName = "retrohub"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
	flagGuest      bool
	flagEndpoint   string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "retrohub",
	Short: "RetroHub - retro arcade games in your terminal",
	Long: `RetroHub is a terminal arcade. Play Breakout locally or over SSH,
keep personal bests and publish them to a shared high-score board.

Available commands:
  list        - Show all available games
  play        - Play a specific game directly
  menu        - Interactive game picker menu
  serve       - Start SSH server for remote play
  highscores  - Serve the high-score HTTP endpoint
  scores      - View high scores
  config      - Print the effective game config

Examples:
  retrohub list
  retrohub play breakout --difficulty hard
  retrohub menu --player alice
  retrohub serve --ssh :2222
  retrohub highscores --addr :8080
  retrohub scores breakout`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		breakout.SetConfigPath(flagConfig)
		breakout.SetDifficultyPreset(preset)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.retrohub/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config (YAML or TOML)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagPlayer, "player", "", "Player name scores are recorded under (default $USER)")
	pf.BoolVar(&flagGuest, "guest", false, "Play without recording scores")
	pf.StringVar(&flagEndpoint, "endpoint", "", "High-score endpoint new bests are posted to")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(highscoresCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger. Interactive commands own the
// terminal, so without --log-file they log nowhere.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          appName,
		Level:           level,
	})
	return logger, closeFn, nil
}

// openStore opens the score database. Games still run without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// playerName returns the name local runs are recorded under.
func playerName() string {
	if name := strings.TrimSpace(flagPlayer); name != "" {
		return name
	}
	return os.Getenv("USER")
}

// submitOptions returns the recorder settings shared by every session.
// The local best store falls back to memory when it cannot be opened.
func submitOptions(store *storage.Store, logger *log.Logger) submit.Options {
	opts := submit.Options{
		Guest:    flagGuest,
		Endpoint: flagEndpoint,
		Logger:   logger,
	}
	if store != nil {
		opts.Scores = store
	}

	best, err := submit.OpenGDataBest(appName)
	if err != nil {
		logger.Warn("local bests kept in memory only", "error", err)
		opts.Best = submit.NewMemoryBest()
	} else {
		opts.Best = best
	}
	return opts
}

// runtimeConfig returns the game runtime settings for the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
