package breakout

import (
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/retrohub/internal/config"
	"github.com/vovakirdan/retrohub/internal/core"
	"github.com/vovakirdan/retrohub/internal/registry"
)

// Visual characters for rendering
const (
	BrickChar  = '█'
	PaddleChar = '▀'
	BallChar   = '●'
	LaserChar  = '│'
)

// Screen layout: one HUD row on top, one hint row at the bottom.
const (
	hudRows    = 1
	footerRows = 1
	minScreenW = 30
	minScreenH = 12
)

var (
	settingsMu       sync.RWMutex
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path used by new games.
func SetConfigPath(path string) {
	settingsMu.Lock()
	configPath = path
	settingsMu.Unlock()
}

// SetDifficultyPreset sets the difficulty preset used by new games.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	settingsMu.Lock()
	difficultyPreset = preset
	settingsMu.Unlock()
}

// loadConfig returns the effective configuration for a new game. A
// non-empty override replaces the package-wide preset.
func loadConfig(override config.DifficultyPreset) config.BreakoutConfig {
	settingsMu.RLock()
	path, preset := configPath, difficultyPreset
	settingsMu.RUnlock()
	if override != "" {
		preset = override
	}

	cfg, err := config.LoadBreakout(path)
	if err != nil {
		cfg = config.DefaultBreakoutConfig()
	}
	config.ApplyBreakoutPreset(&cfg, preset)
	return cfg
}

// Game adapts the engine to the arcade platform: it decodes input frames
// into engine intents, drives the Runner and projects snapshots onto a
// character screen.
type Game struct {
	cfg     config.BreakoutConfig
	runtime core.RuntimeConfig
	preset  config.DifficultyPreset

	engine *Engine
	runner *Runner
	last   TickResult

	// clock stands in for host timestamps when frames arrive without one.
	clock time.Time

	endedMu sync.Mutex
	onEnded func(core.RunSummary)

	cols, rows     int // Field size in cells
	scaleX, scaleY float64
	screenTooSmall bool
}

// New creates a new Breakout game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameKey
}

// SetDifficulty picks the preset for this game only. It takes effect on
// the next Reset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Atari Breakout"
}

// OnRunEnded sets the callback that receives the final score of every run.
func (g *Game) OnRunEnded(fn func(core.RunSummary)) {
	g.endedMu.Lock()
	g.onEnded = fn
	g.endedMu.Unlock()
}

func (g *Game) relay(s core.RunSummary) {
	g.endedMu.Lock()
	fn := g.onEnded
	g.endedMu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Reset builds a fresh engine for the screen and starts a run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if g.runner != nil {
		g.runner.Stop()
	}

	g.runtime = runtime
	g.cfg = loadConfig(g.preset)
	g.layout(runtime.ScreenW, runtime.ScreenH)

	g.engine = NewEngine(g.cfg, g.fieldW(), g.fieldH(), NewSimpleRNG(runtime.Seed))
	g.updateScale(g.engine.Width(), g.engine.Height())

	g.runner = NewRunner(g.engine, GameKey)
	g.runner.OnRunEnded(g.relay)
	g.runner.Start()
	g.last = TickResult{State: StatePlaying, HUD: g.engine.HUD()}
}

// Resize follows a terminal resize without restarting the run.
func (g *Game) Resize(screenW, screenH int) {
	g.runtime.ScreenW = screenW
	g.runtime.ScreenH = screenH
	g.layout(screenW, screenH)
	if g.runner == nil {
		return
	}
	g.runner.Input(func(e *Engine) {
		e.Resize(g.fieldW(), g.fieldH())
		g.updateScale(e.Width(), e.Height())
	})
}

// Close stops the runner. A run still in progress is reported as a quit.
func (g *Game) Close() error {
	if g.runner != nil {
		g.runner.Stop()
	}
	return nil
}

func (g *Game) layout(screenW, screenH int) {
	g.screenTooSmall = screenW < minScreenW || screenH < minScreenH
	g.cols = max(screenW, 1)
	g.rows = max(screenH-hudRows-footerRows, 1)
}

func (g *Game) fieldW() float64 {
	return float64(g.cols) * g.cfg.Field.CellWidth
}

func (g *Game) fieldH() float64 {
	return float64(g.rows) * g.cfg.Field.CellHeight
}

// updateScale recomputes the units-per-cell factors from the field size the
// engine settled on, which may exceed the requested one.
func (g *Game) updateScale(width, height float64) {
	g.scaleX = width / float64(g.cols)
	g.scaleY = height / float64(g.rows)
}

// Step advances the game by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.runner == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	state := g.runner.State()

	if in.Has(core.ActionRestart) && state == StateGameOver {
		g.runner.Start()
	}

	if in.Has(core.ActionPause) && (state == StatePlaying || state == StateLevelComplete) {
		g.runner.SetPaused(!g.runner.Paused())
	}

	g.runner.Input(func(e *Engine) {
		e.SetDirection(in.Has(core.ActionLeft), in.Has(core.ActionRight))
		if in.HasPointer {
			e.SetPaddleTarget((float64(in.PointerX) + 0.5) * g.scaleX)
		}
		if in.Has(core.ActionFire) {
			e.Serve()
		}
	})

	now := in.At
	if now.IsZero() {
		g.clock = g.clock.Add(g.frameStep())
		now = g.clock
	}
	if res, ok := g.runner.Frame(now); ok {
		g.last = res
	}

	return core.StepResult{State: g.State(), HUD: g.last.HUD.String()}
}

func (g *Game) frameStep() time.Duration {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.runner == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.last.HUD.Score,
		GameOver: g.last.State == StateGameOver,
		Paused:   g.runner.Paused(),
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.runner == nil {
		return
	}

	// Check for screen too small
	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", minScreenW, minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	snap := g.runner.Snapshot()

	g.renderHUD(dst, snap)
	g.renderBricks(dst, snap)
	g.renderLaser(dst, snap)
	g.renderItems(dst, snap)
	g.renderPaddle(dst, snap)
	g.renderBalls(dst, snap)
	g.renderFooter(dst, snap)
	g.renderOverlay(dst, snap)
}

// cellX maps a field x coordinate to a screen column.
func (g *Game) cellX(x float64) int {
	return int(x / g.scaleX)
}

// cellY maps a field y coordinate to a screen row.
func (g *Game) cellY(y float64) int {
	return hudRows + int(y/g.scaleY)
}

func (g *Game) renderHUD(dst *core.Screen, snap Snapshot) {
	dst.DrawTextColor(1, 0, snap.HUD.String(), core.ColorWhite)
}

func (g *Game) renderBricks(dst *core.Screen, snap Snapshot) {
	for _, br := range snap.Bricks {
		if !br.Alive {
			continue
		}
		x0 := g.cellX(br.X)
		x1 := g.cellX(br.X + br.W)
		if x1-x0 >= 2 {
			x1-- // leave a gap column between neighbours
		}
		x1 = max(x1, x0+1)
		y := g.cellY(br.Y + br.H/2)
		for x := x0; x < x1; x++ {
			dst.SetColor(x, y, BrickChar, br.Tier.Color())
		}
	}
}

func (g *Game) renderLaser(dst *core.Screen, snap Snapshot) {
	if snap.Laser == nil {
		return
	}
	x := g.cellX(snap.Laser.X)
	for y := hudRows; y < g.cellY(snap.Paddle.Y); y++ {
		dst.SetColor(x, y, LaserChar, core.ColorBrightRed)
	}
}

func (g *Game) renderItems(dst *core.Screen, snap Snapshot) {
	for _, it := range snap.Items {
		c := core.ColorGreen
		if it.Kind == ItemLaser {
			c = core.ColorBrightRed
		}
		dst.SetColor(g.cellX(it.X), g.cellY(it.Y), it.Kind.Glyph(), c)
	}
}

func (g *Game) renderPaddle(dst *core.Screen, snap Snapshot) {
	p := snap.Paddle
	y := g.cellY(p.Y)
	x1 := max(g.cellX(p.X+p.W), g.cellX(p.X)+1)
	for x := g.cellX(p.X); x < x1; x++ {
		dst.SetColor(x, y, PaddleChar, core.ColorBrightCyan)
	}
}

func (g *Game) renderBalls(dst *core.Screen, snap Snapshot) {
	for _, b := range snap.Balls {
		dst.SetColor(g.cellX(b.X), g.cellY(b.Y), BallChar, core.ColorBrightYellow)
	}
}

func (g *Game) renderFooter(dst *core.Screen, snap Snapshot) {
	if snap.State != StatePlaying || g.runner.Paused() {
		return
	}
	for _, b := range snap.Balls {
		if b.Stuck {
			dst.DrawTextCentered(dst.Height()-1, "SPACE serve  ←/→ or mouse move  P pause  Q quit")
			return
		}
	}
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen, snap Snapshot) {
	switch {
	case snap.State == StateGameOver:
		subtitle := fmt.Sprintf("Score: %d  |  R restart  Q quit", snap.HUD.Score)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)

	case g.runner.Paused():
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case snap.State == StateLevelComplete:
		subtitle := fmt.Sprintf("Speed x%.2f", snap.HUD.SpeedMult)
		g.drawCenteredBox(dst, fmt.Sprintf("LEVEL %d", snap.HUD.Level), subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleW := len([]rune(title))
	subtitleW := len([]rune(subtitle))
	boxW := max(titleW, subtitleW) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box background
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	dst.DrawText(boxX+(boxW-titleW)/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-subtitleW)/2, boxY+3, subtitle)
}

// Register the game with the registry
func init() {
	registry.Register(GameKey, func() registry.Game {
		return New()
	}, registry.Info{
		Category:    "Arcade",
		Description: "Break every brick. Catch ◆ for an extra ball and ↑ for a laser.",
		Aliases:     []string{"breakout"},
	})
}
