package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/retrohub/internal/hiscore"
	"github.com/vovakirdan/retrohub/internal/storage"
)

var flagHTTPAddr string

var highscoresCmd = &cobra.Command{
	Use:   "highscores",
	Short: "Serve the high-score HTTP endpoint",
	Long: `Serve the global high-score board over HTTP.

Routes:
  GET  /highscores?limit=N   - Top N entries (default 10)
  POST /highscores           - Submit {"name": ..., "score": ...} as JSON or form
  GET  /ws                   - Websocket feed of newly saved scores

/highscores.php is accepted as an alias of /highscores.

Examples:
  retrohub highscores
  retrohub highscores --addr 127.0.0.1:9000 --db ./board.db
  retrohub play breakout --endpoint http://localhost:8080/highscores`,
	RunE: runHighscores,
}

func init() {
	highscoresCmd.Flags().StringVar(&flagHTTPAddr, "addr", ":8080", "HTTP listen address")
}

func runHighscores(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := hiscore.NewServer(store, logger)
	logger.Info("serving high scores", "addr", flagHTTPAddr, "db", flagDBPath)
	return srv.ListenAndServe(ctx, flagHTTPAddr)
}
