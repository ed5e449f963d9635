// Package submit records finished runs: a per-user local best, the score
// database and the remote high-score endpoint.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retrohub/internal/core"
)

// ScoreSink stores every recorded run. *storage.Store implements it.
type ScoreSink interface {
	SaveScore(gameID, player string, score, level int) (int64, error)
}

// Options configures a Recorder.
type Options struct {
	// User is the signed-in player. Empty means no session.
	User string
	// Guest sessions play but never record.
	Guest bool

	Best   BestStore // Required
	Scores ScoreSink // Optional

	// Endpoint is the high-score URL runs are posted to. Empty disables posting.
	Endpoint string
	Client   *http.Client
	Logger   *log.Logger
}

// Recorder decides whether a finished run is a new personal best and, if
// so, saves it everywhere.
type Recorder struct {
	opts Options
	wg   sync.WaitGroup

	// mu makes the compare and set of a best atomic across RecordAsync
	// goroutines.
	mu sync.Mutex
}

// NewRecorder creates a Recorder. A nil Best falls back to MemoryBest.
func NewRecorder(opts Options) *Recorder {
	if opts.Best == nil {
		opts.Best = NewMemoryBest()
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 5 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Recorder{opts: opts}
}

// User returns the player runs are recorded for.
func (r *Recorder) User() string {
	return r.opts.User
}

// Player returns the user whose activity is kept, or "" for guests and
// sessions without a user.
func (r *Recorder) Player() string {
	if r.opts.Guest {
		return ""
	}
	return r.opts.User
}

// Record saves run when it beats the user's local best for the game.
// Runs without a session, by guests, or not above the current best are not
// saved. A failed post to the endpoint is logged and the run still counts
// as saved. Returns whether the run was saved.
func (r *Recorder) Record(ctx context.Context, run core.RunSummary) (bool, error) {
	user := r.opts.User
	if user == "" || r.opts.Guest {
		return false, nil
	}

	saved, sinkErr, err := r.saveBest(user, run)
	if err != nil || !saved {
		return false, err
	}

	if r.opts.Endpoint != "" {
		if err := r.post(ctx, user, run.Score); err != nil {
			r.opts.Logger.Warn("score post failed", "game", run.GameKey, "score", run.Score, "error", err)
		}
	}

	r.opts.Logger.Info("new best saved", "user", user, "game", run.GameKey, "score", run.Score, "reason", run.Reason)
	return true, sinkErr
}

// saveBest stores run as the new best when it beats the current one.
func (r *Recorder) saveBest(user string, run core.RunSummary) (saved bool, sinkErr, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	best, ok, err := r.opts.Best.Best(user, run.GameKey)
	if err != nil {
		return false, nil, err
	}
	if ok && run.Score <= best {
		return false, nil, nil
	}

	if err := r.opts.Best.SetBest(user, run.GameKey, run.Score); err != nil {
		return false, nil, err
	}

	if r.opts.Scores != nil {
		if _, err := r.opts.Scores.SaveScore(run.GameKey, user, run.Score, run.Level); err != nil {
			sinkErr = err
		}
	}
	return true, sinkErr, nil
}

// RecordAsync runs Record on its own goroutine bounded by timeout so a slow
// endpoint never stalls the caller. Errors are logged.
func (r *Recorder) RecordAsync(run core.RunSummary, timeout time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := r.Record(ctx, run); err != nil {
			r.opts.Logger.Error("record score", "game", run.GameKey, "score", run.Score, "error", err)
		}
	}()
}

// Wait blocks until every pending RecordAsync call has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

type postBody struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func (r *Recorder) post(ctx context.Context, name string, score int) error {
	body, err := json.Marshal(postBody{Name: name, Score: score})
	if err != nil {
		return fmt.Errorf("submit: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.opts.Client.Do(req)
	if err != nil {
		return fmt.Errorf("submit: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submit: endpoint returned %s", resp.Status)
	}
	return nil
}
