package breakout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/retrohub/internal/config"
	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/registry"
)

// pinConfig points new games at a file holding the built-in defaults so
// user config files cannot leak into tests.
func pinConfig(t *testing.T, mutate func(*config.BreakoutConfig)) {
	t.Helper()
	cfg := config.DefaultBreakoutConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	path := filepath.Join(t.TempDir(), "breakout.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := config.Encode(f, cfg, "yaml"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	SetConfigPath(path)
	SetDifficultyPreset(config.DifficultyNormal)
	t.Cleanup(func() { SetConfigPath("") })
}

func newTestGame(t *testing.T, w, h int) *Game {
	t.Helper()
	pinConfig(t, nil)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: 60, Seed: 42})
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func frame(at time.Time, actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	in.At = at
	return in
}

func TestGameRegistered(t *testing.T) {
	for _, name := range []string{GameKey, "breakout"} {
		g, err := registry.Create(name)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
		if g.ID() != GameKey {
			t.Errorf("Create(%q).ID() = %q", name, g.ID())
		}
		if _, ok := g.(registry.RunReporter); !ok {
			t.Error("game should report finished runs")
		}
		if _, ok := g.(registry.Resizer); !ok {
			t.Error("game should follow resizes")
		}
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(frame(t0))

	scr := core.NewScreen(80, 24)
	g.Render(scr)

	if !strings.Contains(scr.Row(0), "Score: 0") || !strings.Contains(scr.Row(0), "Lives: 3") {
		t.Errorf("HUD row = %q", scr.Row(0))
	}
	out := scr.String()
	for _, r := range []rune{BrickChar, PaddleChar, BallChar} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("screen is missing %q", r)
		}
	}
	if !strings.Contains(scr.Row(23), "SPACE serve") {
		t.Errorf("footer = %q, expected serve hint", scr.Row(23))
	}

	// Bricks carry their tier color
	found := false
	top := g.cellY(40 + 18/2)
	for x := range 80 {
		if c := scr.GetCell(x, top); c.Rune == BrickChar {
			found = c.Color == TierRed.Color()
			break
		}
	}
	if !found {
		t.Error("top row of bricks should be red")
	}
}

func TestGameFieldScale(t *testing.T) {
	g := newTestGame(t, 80, 24)
	snap := g.runner.Snapshot()
	if snap.Width != 80*8 {
		t.Errorf("field width = %v, expected 640", snap.Width)
	}
	// 22 rows of 12 units is under the 300 minimum height
	if snap.Height != 300 {
		t.Errorf("field height = %v, expected 300", snap.Height)
	}
	if !approx(g.scaleX, 8) || !approx(g.scaleY, 300.0/22) {
		t.Errorf("scale = %v,%v", g.scaleX, g.scaleY)
	}
}

func TestGameKeyboardMovesPaddle(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(frame(t0))
	x0 := g.runner.Snapshot().Paddle.X

	g.Step(frame(t0.Add(20*time.Millisecond), core.ActionRight))
	if got := g.runner.Snapshot().Paddle.X - x0; !approx(got, 420*0.02) {
		t.Errorf("paddle moved %v, expected %v", got, 420*0.02)
	}

	// Releasing the key stops the paddle
	x0 = g.runner.Snapshot().Paddle.X
	g.Step(frame(t0.Add(40 * time.Millisecond)))
	if g.runner.Snapshot().Paddle.X != x0 {
		t.Error("paddle kept moving without input")
	}
}

func TestGamePointerMovesPaddle(t *testing.T) {
	g := newTestGame(t, 80, 24)
	in := frame(t0)
	in.Point(79)
	g.Step(in)

	snap := g.runner.Snapshot()
	if !approx(snap.Paddle.X, snap.Width-snap.Paddle.W-6) {
		t.Errorf("pointer at right edge: paddle x = %v", snap.Paddle.X)
	}
	if !approx(snap.Balls[0].X, snap.Paddle.CenterX()) {
		t.Error("stuck ball should follow the pointer-driven paddle")
	}
}

func TestGameServeWithFire(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(frame(t0))
	g.Step(frame(t0.Add(16*time.Millisecond), core.ActionFire))
	snap := g.runner.Snapshot()
	if snap.Balls[0].Stuck || snap.Balls[0].VY >= 0 {
		t.Errorf("fire should serve the ball: %+v", snap.Balls[0])
	}
}

func TestGamePauseToggle(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(frame(t0))

	res := g.Step(frame(t0.Add(16*time.Millisecond), core.ActionPause))
	if !res.State.Paused {
		t.Fatal("pause action should pause")
	}
	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "PAUSED") {
		t.Error("paused overlay missing")
	}

	res = g.Step(frame(t0.Add(32*time.Millisecond), core.ActionPause))
	if res.State.Paused {
		t.Error("second pause action should resume")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	pinConfig(t, func(c *config.BreakoutConfig) { c.Gameplay.Lives = 1 })
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	defer func() { _ = g.Close() }()

	log := &summaryLog{}
	g.OnRunEnded(log.record)

	g.Step(frame(t0))
	g.runner.Input(func(e *Engine) { e.score = 70 })
	g.runner.Input(dropBall)
	res := g.Step(frame(t0.Add(16 * time.Millisecond)))
	if !res.State.GameOver || res.State.Score != 70 {
		t.Fatalf("expected game over with score 70: %+v", res.State)
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "GAME OVER") {
		t.Error("game over overlay missing")
	}

	runs := log.all()
	if len(runs) != 1 || runs[0].Reason != core.EndGameOver || runs[0].Score != 70 {
		t.Fatalf("reports = %+v", runs)
	}

	res = g.Step(frame(t0.Add(32*time.Millisecond), core.ActionRestart))
	if res.State.GameOver || res.State.Score != 0 {
		t.Errorf("restart should begin a new run: %+v", res.State)
	}
}

func TestGameCloseReportsQuit(t *testing.T) {
	g := newTestGame(t, 80, 24)
	log := &summaryLog{}
	g.OnRunEnded(log.record)

	g.Step(frame(t0))
	g.runner.Input(func(e *Engine) { e.score = 30 })
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}
	_ = g.Close()

	runs := log.all()
	if len(runs) != 1 {
		t.Fatalf("got %d reports, expected 1", len(runs))
	}
	want := core.RunSummary{GameKey: GameKey, Score: 30, Level: 1, Reason: core.EndQuit}
	if runs[0] != want {
		t.Errorf("report = %+v, expected %+v", runs[0], want)
	}
}

func TestGameResizeKeepsRun(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(frame(t0))
	g.runner.Input(func(e *Engine) { e.score = 90 })

	g.Resize(120, 40)
	snap := g.runner.Snapshot()
	if snap.HUD.Score != 90 {
		t.Errorf("score after resize = %d", snap.HUD.Score)
	}
	if snap.Width != 120*8 || snap.Height != 38*12 {
		t.Errorf("field after resize = %vx%v", snap.Width, snap.Height)
	}
	if !approx(g.scaleX, 8) || !approx(g.scaleY, 12) {
		t.Errorf("scale = %v,%v", g.scaleX, g.scaleY)
	}
}

func TestGameScreenTooSmall(t *testing.T) {
	g := newTestGame(t, 20, 8)
	g.Step(frame(t0, core.ActionFire))

	scr := core.NewScreen(20, 8)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("expected size warning, got:\n%s", scr.String())
	}
}

func TestGameSyntheticClock(t *testing.T) {
	g := newTestGame(t, 80, 24)
	g.Step(core.NewInputFrame())
	x0 := g.runner.Snapshot().Paddle.X

	in := core.NewInputFrame()
	in.Set(core.ActionRight)
	g.Step(in)
	if got := g.runner.Snapshot().Paddle.X - x0; !approx(got, 420.0/60) {
		t.Errorf("paddle moved %v with a 60 fps synthetic clock", got)
	}
}

func TestGameDeterminism(t *testing.T) {
	play := func() uint64 {
		g := newTestGame(t, 80, 24)
		for i := range 600 {
			var actions []core.Action
			switch {
			case i == 5:
				actions = append(actions, core.ActionFire)
			case i%40 < 20:
				actions = append(actions, core.ActionLeft)
			default:
				actions = append(actions, core.ActionRight)
			}
			g.Step(frame(t0.Add(time.Duration(i)*16*time.Millisecond), actions...))
		}
		return g.runner.Snapshot().Hash()
	}

	if a, b := play(), play(); a != b {
		t.Errorf("identical seeds and inputs diverged: %d vs %d", a, b)
	}
}

func TestGameSetDifficulty(t *testing.T) {
	pinConfig(t, nil)

	tests := []struct {
		preset config.DifficultyPreset
		lives  int
	}{
		{"", config.DefaultBreakoutConfig().Gameplay.Lives},
		{config.DifficultyEasy, 5},
		{config.DifficultyHard, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			g := New()
			g.SetDifficulty(tt.preset)
			g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
			defer func() { _ = g.Close() }()

			if got := g.engine.Lives(); got != tt.lives {
				t.Errorf("lives = %d, want %d", got, tt.lives)
			}
		})
	}
}
