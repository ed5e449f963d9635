// Package breakout implements the Breakout brick breaker: a host-driven
// simulation engine, a frame runner that turns timestamps into time steps,
// and the terminal game adapter registered with the arcade.
package breakout

import (
	"fmt"
	"math"

	"github.com/vovakirdan/retrohub/internal/config"
	"github.com/vovakirdan/retrohub/internal/core"
)

// State is the engine's run state.
type State int

const (
	StateMenu          State = iota // Built but no run started
	StatePlaying                    // Physics running
	StateLevelComplete              // Short pause before the next level
	StateGameOver                   // Run over until Start is called again
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateLevelComplete:
		return "level_complete"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// HUD is the status line data, recomputed after every tick.
type HUD struct {
	Score     int
	Level     int
	Lives     int
	SpeedMult float64
	Balls     int
}

// String formats the HUD as a single status line.
func (h HUD) String() string {
	return fmt.Sprintf("Score: %d   Level: %d   Lives: %d   Speed: x%.2f   Balls: %d",
		h.Score, h.Level, h.Lives, h.SpeedMult, h.Balls)
}

// TickResult reports what happened during one Update call.
type TickResult struct {
	State State
	HUD   HUD

	BricksDestroyed int
	ItemsCaught     int
	LifeLost        bool
	LevelCleared    bool // Last brick fell this tick
	LevelStarted    bool // Pause ended and a new grid was built
	GameOver        bool // Lives reached zero this tick
}

// Engine owns all mutable state of one Breakout session and advances it by
// time deltas. It is not safe for concurrent use; see Runner.
type Engine struct {
	cfg config.BreakoutConfig
	rng RNG

	width, height float64

	state     State
	paddle    Paddle
	balls     []Ball
	bricks    []Brick
	items     []FallingItem
	laser     *LaserEffect
	score     int
	lives     int
	level     int
	speedMult float64
	pauseLeft float64

	moveLeft, moveRight bool
}

// NewEngine creates an engine for a field of the given size in StateMenu.
// A nil rng falls back to a SimpleRNG seeded with 1.
func NewEngine(cfg config.BreakoutConfig, width, height float64, rng RNG) *Engine {
	if rng == nil {
		rng = NewSimpleRNG(1)
	}
	e := &Engine{
		cfg:       cfg,
		rng:       rng,
		state:     StateMenu,
		lives:     max(cfg.Gameplay.Lives, 1),
		level:     max(cfg.Gameplay.StartLevel, 1),
		speedMult: 1,
	}
	e.Resize(width, height)
	e.bricks = buildBricks(cfg.Bricks, e.width)
	e.resetServe()
	return e
}

// Start begins a fresh run: score, lives, level and speed are reset and a
// new grid is built with one ball on the paddle.
func (e *Engine) Start() {
	e.score = 0
	e.lives = max(e.cfg.Gameplay.Lives, 1)
	e.level = max(e.cfg.Gameplay.StartLevel, 1)
	e.speedMult = 1
	e.pauseLeft = 0
	e.moveLeft, e.moveRight = false, false
	e.bricks = buildBricks(e.cfg.Bricks, e.width)
	e.resetServe()
	e.state = StatePlaying
}

// Resize changes the field size. Paddle and ball dimensions follow the new
// width. The brick grid is laid out again for the new width and keeps
// which bricks are still standing, so every brick stays reachable.
func (e *Engine) Resize(width, height float64) {
	oldW := e.width
	e.width = math.Max(width, e.cfg.Field.MinWidth)
	e.height = math.Max(height, e.cfg.Field.MinHeight)

	if len(e.bricks) > 0 && e.width != oldW {
		e.bricks = relayBricks(e.bricks, e.cfg.Bricks, e.width)
		scale := e.width / oldW
		for i := range e.items {
			e.items[i].X *= scale
		}
		if e.laser != nil {
			e.laser.X *= scale
		}
	}

	e.paddle.W = math.Max(e.cfg.Paddle.MinWidth, math.Floor(e.width*e.cfg.Paddle.WidthRatio))
	e.paddle.H = e.cfg.Paddle.Height
	e.paddle.Y = e.height - e.cfg.Paddle.BottomOffset
	e.clampPaddle()

	r := e.ballRadius()
	for i := range e.balls {
		e.balls[i].R = r
	}
}

// Width returns the field width.
func (e *Engine) Width() float64 { return e.width }

// Height returns the field height.
func (e *Engine) Height() float64 { return e.height }

// State returns the current run state.
func (e *Engine) State() State { return e.state }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Level returns the current level number (starting at 1).
func (e *Engine) Level() int { return e.level }

// Lives returns the remaining lives.
func (e *Engine) Lives() int { return e.lives }

// HUD returns the current status line data.
func (e *Engine) HUD() HUD {
	return HUD{
		Score:     e.score,
		Level:     e.level,
		Lives:     e.lives,
		SpeedMult: e.speedMult,
		Balls:     len(e.balls),
	}
}

// accepting reports whether input intents may change the run.
func (e *Engine) accepting() bool {
	return e.state == StatePlaying || e.state == StateLevelComplete
}

// SetPaddleTarget centers the paddle on x (pointer or touch input).
func (e *Engine) SetPaddleTarget(x float64) {
	if !e.accepting() {
		return
	}
	e.paddle.X = x - e.paddle.W/2
	e.clampPaddle()
}

// SetDirection sets the held keyboard directions. Holding both cancels out.
func (e *Engine) SetDirection(left, right bool) {
	e.moveLeft, e.moveRight = left, right
}

// Serve launches every stuck ball. It has no effect outside StatePlaying.
func (e *Engine) Serve() {
	if e.state != StatePlaying {
		return
	}
	speed := e.ballSpeed()
	maxAngle := degToRad(e.cfg.Ball.ServeAngle)
	for i := range e.balls {
		b := &e.balls[i]
		if !b.Stuck {
			continue
		}
		b.Stuck = false
		b.VX, b.VY = launchVelocity(speed, e.randomAngle(maxAngle))
	}
}

// Update advances the simulation by dt seconds. dt is clamped to
// [0, MaxDT]. Physics only runs in StatePlaying.
func (e *Engine) Update(dt float64) TickResult {
	dt = e.clampDT(dt)
	var res TickResult

	switch e.state {
	case StatePlaying:
		e.step(dt, &res)
	case StateLevelComplete:
		e.pauseLeft -= dt
		if e.pauseLeft <= 0 {
			e.startLevel()
			res.LevelStarted = true
		}
	}

	res.State = e.state
	res.HUD = e.HUD()
	return res
}

// step runs one physics tick in a fixed order: paddle, balls, life check,
// items, laser, level clear.
func (e *Engine) step(dt float64, res *TickResult) {
	e.movePaddle(dt)
	res.BricksDestroyed += e.updateBalls(dt)

	if len(e.balls) == 0 {
		res.LifeLost = true
		if e.loseLife() {
			res.GameOver = true
			return
		}
	}

	caught, lasered := e.updateItems(dt)
	res.ItemsCaught = caught
	res.BricksDestroyed += lasered

	if e.laser != nil {
		e.laser.TTL -= dt
		if e.laser.TTL <= 0 {
			e.laser = nil
		}
	}

	if countAlive(e.bricks) == 0 {
		e.clearLevel()
		res.LevelCleared = true
	}
}

func (e *Engine) movePaddle(dt float64) {
	dir := 0.0
	if e.moveLeft {
		dir--
	}
	if e.moveRight {
		dir++
	}
	e.paddle.X += dir * e.cfg.Paddle.Speed * dt
	e.clampPaddle()
}

// updateBalls moves every ball, resolves collisions and drops balls that
// left the field. Returns the number of bricks destroyed.
func (e *Engine) updateBalls(dt float64) int {
	destroyed := 0
	maxAngle := degToRad(e.cfg.Ball.MaxBounceAngle)

	kept := e.balls[:0]
	for _, b := range e.balls {
		if b.Stuck {
			e.placeOnPaddle(&b)
			kept = append(kept, b)
			continue
		}

		b.X += b.VX * dt
		b.Y += b.VY * dt

		reflectWalls(&b, e.width)
		bouncePaddle(&b, e.paddle, maxAngle)

		if i := hitBrick(&b, e.bricks); i >= 0 {
			br := &e.bricks[i]
			br.Alive = false
			e.score += e.cfg.Gameplay.BrickPoints * e.level
			e.rollDrop(*br)
			deflectOffBrick(&b, *br)
			destroyed++
		}

		if b.Y-b.R > e.height {
			continue
		}
		kept = append(kept, b)
	}
	e.balls = kept
	return destroyed
}

// loseLife takes a life after the last ball is gone. Returns true when that
// ends the run.
func (e *Engine) loseLife() bool {
	e.lives--
	if e.lives <= 0 {
		e.lives = 0
		e.state = StateGameOver
		e.moveLeft, e.moveRight = false, false
		return true
	}
	e.resetServe()
	return false
}

// clearLevel is called the tick the last brick falls.
func (e *Engine) clearLevel() {
	e.state = StateLevelComplete
	e.level++
	e.speedMult = math.Min(e.maxSpeedMult(), e.speedMult+e.cfg.Progression.SpeedStep)
	e.pauseLeft = e.cfg.Progression.LevelPause
	e.items = e.items[:0]
	e.laser = nil
}

// startLevel ends the level pause with a new grid and a ball on the paddle.
func (e *Engine) startLevel() {
	e.bricks = buildBricks(e.cfg.Bricks, e.width)
	e.resetServe()
	e.state = StatePlaying
}

// resetServe recenters the paddle with one stuck ball and clears items and
// the laser.
func (e *Engine) resetServe() {
	e.paddle.X = (e.width - e.paddle.W) / 2
	e.clampPaddle()
	b := Ball{R: e.ballRadius(), Stuck: true}
	e.placeOnPaddle(&b)
	e.balls = append(e.balls[:0], b)
	e.items = e.items[:0]
	e.laser = nil
}

// placeOnPaddle puts a ball on the paddle center, just above its top edge.
func (e *Engine) placeOnPaddle(b *Ball) {
	b.X = e.paddle.CenterX()
	b.Y = e.paddle.Y - b.R - e.cfg.Ball.StuckGap
}

func (e *Engine) clampPaddle() {
	e.paddle.X = core.ClampF(e.paddle.X, e.cfg.Paddle.Margin, e.width-e.paddle.W-e.cfg.Paddle.Margin)
}

func (e *Engine) ballRadius() float64 {
	return math.Max(e.cfg.Ball.MinRadius, math.Floor(e.width*e.cfg.Ball.RadiusRatio))
}

func (e *Engine) ballSpeed() float64 {
	return e.cfg.Ball.Speed * e.speedMult
}

func (e *Engine) maxSpeedMult() float64 {
	return math.Max(1, e.cfg.Progression.MaxSpeedMult)
}

func (e *Engine) clampDT(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if e.cfg.Timing.MaxDT > 0 && dt > e.cfg.Timing.MaxDT {
		return e.cfg.Timing.MaxDT
	}
	return dt
}

// randomAngle returns a uniform angle in [-maxAngle, +maxAngle].
func (e *Engine) randomAngle(maxAngle float64) float64 {
	if maxAngle == 0 {
		return 0
	}
	return (e.rng.Float64()*2 - 1) * maxAngle
}
