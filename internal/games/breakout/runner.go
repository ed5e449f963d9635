package breakout

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/retrohub/internal/core"
)

// GameKey identifies Breakout to score recorders.
const GameKey = "atari-breakout"

// Runner drives an Engine from host timestamps. It converts successive
// timestamps into clamped time steps, owns the stopped flag and reports the
// end of each run exactly once.
//
// All methods are safe for concurrent use: frame callbacks, input handlers
// and Stop may come from different goroutines.
type Runner struct {
	mu      sync.Mutex
	engine  *Engine
	gameKey string

	last     time.Time
	hasLast  bool
	stopped  bool
	paused   bool
	reported bool

	onEnded func(core.RunSummary)
}

// NewRunner wraps an engine. The run is not started until Start.
func NewRunner(e *Engine, gameKey string) *Runner {
	return &Runner{engine: e, gameKey: gameKey}
}

// OnRunEnded sets the callback invoked when a run reaches game over or is
// stopped mid-run. It is called synchronously from Frame or Stop, after the
// runner lock is released, at most once per run.
func (r *Runner) OnRunEnded(fn func(core.RunSummary)) {
	r.mu.Lock()
	r.onEnded = fn
	r.mu.Unlock()
}

// Start begins a new run and re-arms the runner after Stop.
// The next Frame advances by zero.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.Start()
	r.hasLast = false
	r.stopped = false
	r.paused = false
	r.reported = false
}

// Frame advances the engine to timestamp now. The first frame after Start
// or after a pause uses dt = 0. Returns false, touching nothing, once the
// runner is stopped.
func (r *Runner) Frame(now time.Time) (TickResult, bool) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return TickResult{}, false
	}

	dt := 0.0
	if r.hasLast {
		dt = now.Sub(r.last).Seconds()
	}
	r.last = now
	r.hasLast = true

	var res TickResult
	if r.paused {
		res = TickResult{State: r.engine.State(), HUD: r.engine.HUD()}
	} else {
		res = r.engine.Update(dt)
	}

	var notify func(core.RunSummary)
	var summary core.RunSummary
	if res.GameOver && !r.reported {
		r.reported = true
		notify = r.onEnded
		summary = r.summary(core.EndGameOver)
	}
	r.mu.Unlock()

	if notify != nil {
		notify(summary)
	}
	return res, true
}

// Stop halts the runner. A frame racing with Stop either completes before
// it or sees the stopped flag and does nothing. Stopping a run that is
// still in progress reports its score as a quit.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true

	var notify func(core.RunSummary)
	var summary core.RunSummary
	st := r.engine.State()
	if !r.reported && (st == StatePlaying || st == StateLevelComplete) {
		r.reported = true
		notify = r.onEnded
		summary = r.summary(core.EndQuit)
	}
	r.mu.Unlock()

	if notify != nil {
		notify(summary)
	}
}

// Stopped reports whether Stop has been called since the last Start.
func (r *Runner) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// SetPaused freezes or resumes the simulation. Time spent paused is not
// simulated.
func (r *Runner) SetPaused(paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused && !paused {
		r.hasLast = false
	}
	r.paused = paused
}

// Paused reports whether the simulation is frozen.
func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// State returns the engine's run state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.State()
}

// Input applies decoded intents to the engine under the runner lock.
// Ignored once stopped.
func (r *Runner) Input(fn func(e *Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	fn(r.engine)
}

// Snapshot returns a copy of the engine state for rendering.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Snapshot()
}

// Run calls Frame on every tick of interval until ctx is done or the
// runner is stopped. It is for hosts without their own scheduler.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if _, ok := r.Frame(now); !ok {
				return nil
			}
		}
	}
}

func (r *Runner) summary(reason core.EndReason) core.RunSummary {
	return core.RunSummary{
		GameKey: r.gameKey,
		Score:   r.engine.Score(),
		Level:   r.engine.Level(),
		Reason:  reason,
	}
}
