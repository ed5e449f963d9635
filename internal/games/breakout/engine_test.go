package breakout

import (
	"math"
	"testing"

	"github.com/vovakirdan/retrohub/internal/config"
)

const eps = 1e-9

// scriptRNG replays fixed draws. When a script runs out it returns values
// that never drop an item and give a straight launch.
type scriptRNG struct {
	ints   []int
	floats []float64
	calls  int
}

func (r *scriptRNG) Intn(n int) int {
	r.calls++
	if len(r.ints) == 0 {
		return n - 1
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

func (r *scriptRNG) Float64() float64 {
	r.calls++
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func testConfig() config.BreakoutConfig {
	return config.DefaultBreakoutConfig()
}

func newTestEngine(t *testing.T, cfg config.BreakoutConfig) (*Engine, *scriptRNG) {
	t.Helper()
	rng := &scriptRNG{}
	e := NewEngine(cfg, 600, 400, rng)
	e.Start()
	return e, rng
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNewEngineStartsInMenu(t *testing.T) {
	e := NewEngine(testConfig(), 600, 400, nil)
	if e.State() != StateMenu {
		t.Fatalf("new engine state = %v, expected menu", e.State())
	}

	before := e.Snapshot().Hash()
	e.Serve()
	e.SetPaddleTarget(10)
	res := e.Update(0.05)
	if res.State != StateMenu || e.Snapshot().Hash() != before {
		t.Error("menu state should not simulate or accept input")
	}

	e.Start()
	if e.State() != StatePlaying || e.Level() != 1 || e.Lives() != 3 || e.Score() != 0 {
		t.Errorf("Start() gave state=%v level=%d lives=%d score=%d",
			e.State(), e.Level(), e.Lives(), e.Score())
	}
}

func TestFieldMinimumSize(t *testing.T) {
	e := NewEngine(testConfig(), 100, 50, nil)
	if e.Width() != 400 || e.Height() != 300 {
		t.Errorf("field = %vx%v, expected 400x300", e.Width(), e.Height())
	}

	snap := e.Snapshot()
	if snap.Paddle.W != 80 {
		t.Errorf("paddle width = %v, expected the 80 unit minimum", snap.Paddle.W)
	}
	if snap.Paddle.Y != 260 {
		t.Errorf("paddle y = %v, expected 260", snap.Paddle.Y)
	}
	if snap.Balls[0].R != 6 {
		t.Errorf("ball radius = %v, expected 6", snap.Balls[0].R)
	}
}

func TestStuckBallTracksPaddle(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg)

	check := func(label string) {
		t.Helper()
		snap := e.Snapshot()
		b := snap.Balls[0]
		if !b.Stuck {
			t.Fatalf("%s: ball should still be stuck", label)
		}
		if !approx(b.X, snap.Paddle.CenterX()) {
			t.Errorf("%s: ball x = %v, paddle center = %v", label, b.X, snap.Paddle.CenterX())
		}
		if !approx(b.Y, snap.Paddle.Y-b.R-cfg.Ball.StuckGap) {
			t.Errorf("%s: ball y = %v, expected %v", label, b.Y, snap.Paddle.Y-b.R-cfg.Ball.StuckGap)
		}
	}

	// Stale velocity on a stuck ball must not move it
	e.balls[0].VX, e.balls[0].VY = 500, -500

	e.SetDirection(false, true)
	for range 10 {
		e.Update(0.016)
	}
	check("after moving right")

	e.SetDirection(true, false)
	for range 200 {
		e.Update(0.016)
	}
	check("pinned at left margin")
	if e.Snapshot().Paddle.X != cfg.Paddle.Margin {
		t.Errorf("paddle should clamp to left margin, got %v", e.Snapshot().Paddle.X)
	}

	e.SetDirection(false, false)
	e.SetPaddleTarget(10_000)
	e.Update(0.016)
	check("after pointer far right")
	p := e.Snapshot().Paddle
	if !approx(p.X, e.Width()-p.W-cfg.Paddle.Margin) {
		t.Errorf("paddle should clamp to right margin, got %v", p.X)
	}
}

func TestPaddleKeyboardMovement(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	start := e.Snapshot().Paddle.X

	e.SetDirection(false, true)
	e.Update(0.02)
	if got := e.Snapshot().Paddle.X - start; !approx(got, 420*0.02) {
		t.Errorf("paddle moved %v, expected %v", got, 420*0.02)
	}

	// Both directions cancel
	e.SetDirection(true, true)
	before := e.Snapshot().Paddle.X
	e.Update(0.02)
	if e.Snapshot().Paddle.X != before {
		t.Error("holding both directions should not move the paddle")
	}
}

func TestWallReflection(t *testing.T) {
	const width = 600.0
	tests := []struct {
		name  string
		ball  Ball
		check func(b Ball) bool
		pos   func(b Ball) bool
	}{
		{
			name:  "left wall",
			ball:  Ball{X: 3, Y: 200, VX: -200, VY: -120, R: 6},
			check: func(b Ball) bool { return b.VX >= 0 },
			pos:   func(b Ball) bool { return b.X == 6 },
		},
		{
			name:  "right wall",
			ball:  Ball{X: 598, Y: 200, VX: 200, VY: 120, R: 6},
			check: func(b Ball) bool { return b.VX <= 0 },
			pos:   func(b Ball) bool { return b.X == width-6 },
		},
		{
			name:  "top wall",
			ball:  Ball{X: 300, Y: 2, VX: 50, VY: -300, R: 6},
			check: func(b Ball) bool { return b.VY >= 0 },
			pos:   func(b Ball) bool { return b.Y == 6 },
		},
		{
			name:  "left wall already moving away",
			ball:  Ball{X: 4, Y: 200, VX: 150, VY: 80, R: 6},
			check: func(b Ball) bool { return b.VX == 150 },
			pos:   func(b Ball) bool { return b.X == 6 },
		},
		{
			name:  "top left corner",
			ball:  Ball{X: 1, Y: 1, VX: -100, VY: -100, R: 6},
			check: func(b Ball) bool { return b.VX >= 0 && b.VY >= 0 },
			pos:   func(b Ball) bool { return b.X == 6 && b.Y == 6 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.ball
			speed := b.Speed()
			reflectWalls(&b, width)
			if !tc.check(b) {
				t.Errorf("velocity sign wrong after reflection: %+v", b)
			}
			if !tc.pos(b) {
				t.Errorf("position not clamped to boundary: %+v", b)
			}
			if !approx(b.Speed(), speed) {
				t.Errorf("speed changed: %v -> %v", speed, b.Speed())
			}
		})
	}
}

func TestBottomHasNoWall(t *testing.T) {
	b := Ball{X: 300, Y: 500, VX: 0, VY: 300, R: 6}
	reflectWalls(&b, 600)
	if b.VY != 300 || b.Y != 500 {
		t.Errorf("bottom edge should not reflect: %+v", b)
	}
}

func TestPaddleBounceAngle(t *testing.T) {
	p := Paddle{X: 200, Y: 360, W: 100, H: 14}
	maxAngle := degToRad(75)
	const speed = 311.0

	bounce := func(offset float64) Ball {
		b := Ball{X: p.CenterX() + offset, Y: p.Y - 2, VX: 0, VY: speed, R: 6}
		if !bouncePaddle(&b, p, maxAngle) {
			t.Fatalf("expected contact at offset %v", offset)
		}
		return b
	}

	center := bounce(0)
	if math.Abs(center.VX) > eps || !approx(center.VY, -speed) {
		t.Errorf("dead-center hit should rebound straight up, got (%v, %v)", center.VX, center.VY)
	}
	if !approx(center.Y, p.Y-center.R-0.1) {
		t.Errorf("ball should sit just above paddle, y=%v", center.Y)
	}

	edge := bounce(p.W / 2)
	if got := math.Atan2(edge.VX, -edge.VY); !approx(got, maxAngle) {
		t.Errorf("edge hit angle = %v, expected %v", got, maxAngle)
	}

	// Beyond the edge is clamped to the max angle
	beyond := bounce(p.W/2 + 5)
	if got := math.Atan2(beyond.VX, -beyond.VY); !approx(got, maxAngle) {
		t.Errorf("overhang hit angle = %v, expected %v", got, maxAngle)
	}

	prev := math.Inf(-1)
	for off := -p.W / 2; off <= p.W/2; off += 5 {
		b := bounce(off)
		if b.VY >= 0 {
			t.Fatalf("offset %v: ball must leave upward, vy=%v", off, b.VY)
		}
		if !approx(b.Speed(), speed) {
			t.Errorf("offset %v: speed %v, expected %v", off, b.Speed(), speed)
		}
		angle := math.Atan2(b.VX, -b.VY)
		if angle <= prev {
			t.Errorf("angle not increasing at offset %v: %v after %v", off, angle, prev)
		}
		prev = angle
	}
}

func TestPaddleIgnoresRisingBall(t *testing.T) {
	p := Paddle{X: 200, Y: 360, W: 100, H: 14}
	b := Ball{X: 250, Y: 362, VX: 20, VY: -300, R: 6}
	if bouncePaddle(&b, p, degToRad(75)) {
		t.Error("a ball moving up must pass through the paddle")
	}
	if b.VX != 20 || b.VY != -300 {
		t.Errorf("velocity changed: %+v", b)
	}
}

func TestBrickDeflection(t *testing.T) {
	br := Brick{X: 100, Y: 100, W: 50, H: 18, Alive: true}

	side := Ball{X: 96, Y: 109, VX: 200, VY: -50, R: 6}
	deflectOffBrick(&side, br)
	if side.VX != -200 || side.VY != -50 {
		t.Errorf("side hit should flip vx only: %+v", side)
	}

	below := Ball{X: 125, Y: 122, VX: 80, VY: -200, R: 6}
	deflectOffBrick(&below, br)
	if below.VX != 80 || below.VY != 200 {
		t.Errorf("bottom hit should flip vy only: %+v", below)
	}
}

func TestBrickHitScoresAndDeflects(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	e.level = 3
	target := e.bricks[len(e.bricks)-1] // bottom row, clear path from below
	cx, _ := target.Rect().Center()
	r := e.ballRadius()
	e.balls = []Ball{{X: cx, Y: target.Y + target.H + r - 1, VX: 0, VY: -300, R: r}}

	res := e.Update(0.001)
	if res.BricksDestroyed != 1 {
		t.Fatalf("expected one brick destroyed, got %d", res.BricksDestroyed)
	}
	if e.bricks[len(e.bricks)-1].Alive {
		t.Error("hit brick should be dead")
	}
	if e.Score() != 10*3 {
		t.Errorf("score = %d, expected brick points x level = 30", e.Score())
	}
	if e.balls[0].VY <= 0 {
		t.Errorf("ball should bounce down off the brick bottom, vy=%v", e.balls[0].VY)
	}
}

func TestOnlyFirstBrickHitPerBall(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	e.bricks = []Brick{
		{X: 100, Y: 100, W: 50, H: 18, Alive: true},
		{X: 100, Y: 100, W: 50, H: 18, Alive: true}, // overlapping twin
		{X: 400, Y: 40, W: 50, H: 18, Alive: true},
	}
	e.balls = []Ball{{X: 125, Y: 124, VX: 0, VY: -100, R: 6}}

	res := e.Update(0.001)
	if res.BricksDestroyed != 1 || e.bricks[0].Alive || !e.bricks[1].Alive {
		t.Errorf("only the first brick in order should die: %+v", e.bricks[:2])
	}
}

func TestDeadBrickNeverCollidesAgain(t *testing.T) {
	e, rng := newTestEngine(t, testConfig())
	e.bricks = []Brick{
		{X: 100, Y: 100, W: 50, H: 18, Alive: false, Tier: TierViolet},
		{X: 400, Y: 40, W: 50, H: 18, Alive: true},
	}
	e.balls = []Ball{{X: 125, Y: 109, VX: 30, VY: -100, R: 6}}
	calls := rng.calls

	res := e.Update(0.001)
	if res.BricksDestroyed != 0 || e.Score() != 0 {
		t.Errorf("dead brick scored: destroyed=%d score=%d", res.BricksDestroyed, e.Score())
	}
	if e.balls[0].VX != 30 || e.balls[0].VY != -100 {
		t.Errorf("dead brick changed velocity: %+v", e.balls[0])
	}
	if rng.calls != calls {
		t.Error("dead brick rolled for a drop")
	}
}

func TestTierDropRates(t *testing.T) {
	want := map[Tier]int{
		TierRed: 0, TierOrange: 4, TierYellow: 6, TierGreen: 8,
		TierBlue: 10, TierIndigo: 12, TierViolet: 14,
	}
	for tier, rate := range want {
		if tier.DropRate() != rate {
			t.Errorf("%v drop rate = %d, expected %d", tier, tier.DropRate(), rate)
		}
	}
	for row := range 14 {
		if TierForRow(row) != Tier(row%7) {
			t.Errorf("row %d tier = %v", row, TierForRow(row))
		}
	}
}

func TestDropRoll(t *testing.T) {
	tests := []struct {
		name     string
		tier     Tier
		ints     []int
		wantDrop bool
		wantKind ItemKind
	}{
		{"red never drops", TierRed, []int{0}, false, 0},
		{"orange under rate", TierOrange, []int{3, 0}, true, ItemDuplicate},
		{"orange at rate", TierOrange, []int{4}, false, 0},
		{"violet laser", TierViolet, []int{13, 1}, true, ItemLaser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, rng := newTestEngine(t, testConfig())
			rng.ints = tc.ints
			br := Brick{X: 100, Y: 100, W: 50, H: 18, Tier: tc.tier}
			e.rollDrop(br)

			if got := len(e.items) == 1; got != tc.wantDrop {
				t.Fatalf("drop = %v, expected %v", got, tc.wantDrop)
			}
			if !tc.wantDrop {
				return
			}
			it := e.items[0]
			if it.Kind != tc.wantKind {
				t.Errorf("kind = %v, expected %v", it.Kind, tc.wantKind)
			}
			if it.X != 125 || it.Y != 109 || it.Speed != 140 {
				t.Errorf("item should start at brick center with fall speed: %+v", it)
			}
		})
	}
}

// Scenario: 600 wide field, stuck ball served straight up, no bricks in the
// way, stepped until it reaches the top wall.
func TestScenarioServeStraightUpToTopWall(t *testing.T) {
	cfg := testConfig()
	cfg.Ball.ServeAngle = 0
	e, _ := newTestEngine(t, cfg)
	if e.Width() != 600 {
		t.Fatalf("field width = %v", e.Width())
	}
	// One brick well away from the ball's column keeps the level alive
	e.bricks = []Brick{{X: 10, Y: 40, W: 20, H: 18, Alive: true}}

	e.Serve()
	b := e.balls[0]
	if b.Stuck || b.VX != 0 || b.VY >= 0 {
		t.Fatalf("serve should launch straight up: %+v", b)
	}
	vx0 := b.VX

	for range 1000 {
		e.Update(0.01)
		b = e.balls[0]
		if b.VY > 0 {
			break
		}
	}
	if b.VY <= 0 {
		t.Fatal("ball never reached the top wall")
	}
	if b.Y != b.R {
		t.Errorf("ball y = %v, expected clamp to radius %v", b.Y, b.R)
	}
	if b.VX != vx0 {
		t.Errorf("vx changed from %v to %v", vx0, b.VX)
	}
	if !approx(b.VY, cfg.Ball.Speed) {
		t.Errorf("vy = %v, expected +%v", b.VY, cfg.Ball.Speed)
	}
}

func TestServeAngleRange(t *testing.T) {
	cfg := testConfig()
	cfg.Ball.ServeAngle = 45
	e, rng := newTestEngine(t, cfg)
	rng.floats = []float64{0} // -> -45 degrees

	e.Serve()
	b := e.balls[0]
	s := cfg.Ball.Speed
	if !approx(b.VX, -s*math.Sin(math.Pi/4)) || !approx(b.VY, -s*math.Cos(math.Pi/4)) {
		t.Errorf("serve velocity = (%v, %v)", b.VX, b.VY)
	}

	// Serving again does nothing to a free ball
	e.Serve()
	if e.balls[0] != b {
		t.Error("serve should only affect stuck balls")
	}
}

func TestServeScalesWithSpeedMultiplier(t *testing.T) {
	cfg := testConfig()
	cfg.Ball.ServeAngle = 0
	e, _ := newTestEngine(t, cfg)
	e.speedMult = 1.3
	e.Serve()
	if !approx(e.balls[0].Speed(), cfg.Ball.Speed*1.3) {
		t.Errorf("serve speed = %v, expected %v", e.balls[0].Speed(), cfg.Ball.Speed*1.3)
	}
}

// Scenario: a 7xN grid cleared one brick at a time.
func TestScenarioLevelClearOneByOne(t *testing.T) {
	cfg := testConfig()
	cfg.Bricks.Rows = 7
	cfg.Bricks.Cols = 4
	e, _ := newTestEngine(t, cfg)
	if len(e.bricks) != 28 {
		t.Fatalf("grid has %d bricks, expected 28", len(e.bricks))
	}

	r := e.ballRadius()
	for i := range e.bricks {
		cx, cy := e.bricks[i].Rect().Center()
		e.balls = []Ball{{X: cx, Y: cy, VX: 0, VY: -10, R: r}}
		res := e.Update(0.001)

		if e.bricks[i].Alive {
			t.Fatalf("brick %d survived a direct hit", i)
		}
		last := i == len(e.bricks)-1
		if res.LevelCleared != last {
			t.Fatalf("brick %d: LevelCleared = %v", i, res.LevelCleared)
		}
		if !last && e.State() != StatePlaying {
			t.Fatalf("brick %d: state = %v before the grid was clear", i, e.State())
		}
	}

	if e.State() != StateLevelComplete {
		t.Errorf("state = %v, expected level complete", e.State())
	}
	if e.Level() != 2 {
		t.Errorf("level = %d, expected 2", e.Level())
	}
	if !approx(e.HUD().SpeedMult, 1+cfg.Progression.SpeedStep) {
		t.Errorf("speed mult = %v, expected %v", e.HUD().SpeedMult, 1+cfg.Progression.SpeedStep)
	}
}

func TestSpeedMultiplierCapped(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg)
	e.speedMult = 1.95
	e.bricks = e.bricks[:0]

	res := e.Update(0.01)
	if !res.LevelCleared {
		t.Fatal("empty grid should clear the level")
	}
	if e.HUD().SpeedMult != cfg.Progression.MaxSpeedMult {
		t.Errorf("speed mult = %v, expected cap %v", e.HUD().SpeedMult, cfg.Progression.MaxSpeedMult)
	}

	// Further clears stay at the cap
	for range 5 {
		for e.State() == StateLevelComplete {
			e.Update(0.05)
		}
		e.bricks = e.bricks[:0]
		e.Update(0.01)
		if e.HUD().SpeedMult > cfg.Progression.MaxSpeedMult {
			t.Fatalf("speed mult %v exceeded cap", e.HUD().SpeedMult)
		}
	}
}

func TestLevelPauseThenNextLevel(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg)
	e.bricks = e.bricks[:0]
	e.Update(0.01)
	if e.State() != StateLevelComplete {
		t.Fatalf("state = %v", e.State())
	}

	// Physics is frozen during the pause
	e.SetDirection(false, true)
	paddleX := e.Snapshot().Paddle.X
	elapsed := 0.0
	var res TickResult
	for elapsed < cfg.Progression.LevelPause-0.1 {
		res = e.Update(0.05)
		elapsed += 0.05
		if res.LevelStarted {
			t.Fatalf("level started early after %vs", elapsed)
		}
	}
	if e.Snapshot().Paddle.X != paddleX {
		t.Error("paddle moved during level pause")
	}

	for !res.LevelStarted {
		res = e.Update(0.05)
	}
	if e.State() != StatePlaying {
		t.Errorf("state = %v after pause", e.State())
	}
	if countAlive(e.bricks) != cfg.Bricks.Rows*cfg.Bricks.Cols {
		t.Errorf("new grid has %d bricks", countAlive(e.bricks))
	}
	if len(e.balls) != 1 || !e.balls[0].Stuck {
		t.Errorf("next level should start with one stuck ball: %+v", e.balls)
	}
}

func TestLifeLostResetsServe(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	e.Serve()
	e.items = []FallingItem{{X: 50, Y: 50, Kind: ItemLaser, Speed: 140}}
	e.laser = &LaserEffect{X: 100, TTL: 0.3}
	e.paddle.X = e.cfg.Paddle.Margin
	e.balls[0].Y = e.Height() + 50
	e.balls[0].VY = 100

	res := e.Update(0.01)
	if !res.LifeLost || res.GameOver {
		t.Fatalf("expected a life lost without game over: %+v", res)
	}
	if e.Lives() != 2 || e.State() != StatePlaying {
		t.Errorf("lives=%d state=%v", e.Lives(), e.State())
	}
	snap := e.Snapshot()
	if len(snap.Balls) != 1 || !snap.Balls[0].Stuck {
		t.Errorf("expected one fresh stuck ball: %+v", snap.Balls)
	}
	if !approx(snap.Paddle.CenterX(), e.Width()/2) {
		t.Errorf("paddle should be recentered, center=%v", snap.Paddle.CenterX())
	}
	if len(snap.Items) != 0 || snap.Laser != nil {
		t.Error("items and laser should be cleared")
	}
}

func TestLosingOneOfTwoBallsKeepsLife(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	r := e.ballRadius()
	e.balls = []Ball{
		{X: 300, Y: e.Height() + 50, VY: 100, R: r},
		{X: 300, Y: 200, VY: -100, R: r},
	}
	res := e.Update(0.01)
	if res.LifeLost || e.Lives() != 3 || len(e.balls) != 1 {
		t.Errorf("one remaining ball should keep the life: lost=%v lives=%d balls=%d",
			res.LifeLost, e.Lives(), len(e.balls))
	}
}

// Scenario: last life, ball falls out.
func TestScenarioGameOverFreezes(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.Lives = 1
	e, _ := newTestEngine(t, cfg)
	e.Serve()
	e.balls[0].Y = e.Height() + 20
	e.balls[0].VY = 200

	res := e.Update(0.01)
	if !res.GameOver || res.State != StateGameOver || e.Lives() != 0 {
		t.Fatalf("expected game over: %+v lives=%d", res, e.Lives())
	}

	before := e.Snapshot().Hash()
	e.SetDirection(false, true)
	e.SetPaddleTarget(10)
	e.Serve()
	for range 10 {
		res = e.Update(0.05)
		if res.GameOver {
			t.Error("game over should be reported once")
		}
	}
	if e.Snapshot().Hash() != before {
		t.Error("nothing may move after game over")
	}

	e.Start()
	if e.State() != StatePlaying || e.Lives() != 1 || e.Score() != 0 {
		t.Error("Start should begin a new run")
	}
}

// Scenario: laser caught with three bricks in the paddle's column.
func TestScenarioLaserClearsColumn(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	e.level = 2
	x := e.paddle.CenterX()
	e.bricks = []Brick{
		{X: x - 25, Y: 40, W: 50, H: 18, Alive: true},
		{X: x - 10, Y: 64, W: 50, H: 18, Alive: true},
		{X: x - 40, Y: 88, W: 50, H: 18, Alive: true},
		{X: 10, Y: 40, W: 30, H: 18, Alive: true}, // out of the column
		{X: x - 25, Y: 112, W: 50, H: 18, Alive: false},
	}
	e.items = []FallingItem{{X: x, Y: e.paddle.Y - 4, Kind: ItemLaser, Speed: 140}}

	res := e.Update(0.016)
	if res.ItemsCaught != 1 || res.BricksDestroyed != 3 {
		t.Fatalf("caught=%d destroyed=%d", res.ItemsCaught, res.BricksDestroyed)
	}
	for i := range 3 {
		if e.bricks[i].Alive {
			t.Errorf("brick %d in the column survived", i)
		}
	}
	if !e.bricks[3].Alive {
		t.Error("brick outside the column was destroyed")
	}
	if want := 10*2*3 + 2*3; e.Score() != want {
		t.Errorf("score = %d, expected %d", e.Score(), want)
	}
	snap := e.Snapshot()
	if snap.Laser == nil || snap.Laser.TTL <= 0 || snap.Laser.X != x {
		t.Errorf("laser should be active at x=%v: %+v", x, snap.Laser)
	}
	if len(snap.Items) != 0 {
		t.Error("caught item should be removed")
	}

	// The beam fades
	for range 30 {
		e.Update(0.05)
	}
	if e.Snapshot().Laser != nil {
		t.Error("laser should expire")
	}
}

func TestDuplicateItemAddsBall(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg)
	e.speedMult = 1.15
	x := e.paddle.CenterX()
	e.items = []FallingItem{{X: x, Y: e.paddle.Y - 4, Kind: ItemDuplicate, Speed: 140}}

	res := e.Update(0.016)
	if res.ItemsCaught != 1 {
		t.Fatal("item not caught")
	}
	if len(e.balls) != 2 {
		t.Fatalf("balls = %d, expected 2", len(e.balls))
	}
	if e.Score() != cfg.Items.DuplicateBonus {
		t.Errorf("score = %d, expected bonus %d", e.Score(), cfg.Items.DuplicateBonus)
	}
	nb := e.balls[1]
	if nb.Stuck || nb.VY >= 0 {
		t.Errorf("duplicate should be a free ball moving up: %+v", nb)
	}
	if !approx(nb.Speed(), cfg.Ball.Speed*1.15) {
		t.Errorf("duplicate speed = %v, expected %v", nb.Speed(), cfg.Ball.Speed*1.15)
	}
	if e.HUD().Balls != 2 {
		t.Errorf("HUD ball count = %d", e.HUD().Balls)
	}
}

func TestMissedItemFallsOut(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	e.items = []FallingItem{{X: 5, Y: e.Height() - 1, Kind: ItemDuplicate, Speed: 140}}
	for range 10 {
		e.Update(0.05)
	}
	if len(e.items) != 0 || len(e.balls) != 1 || e.Score() != 0 {
		t.Error("an item below the field should vanish unconsumed")
	}
}

func TestDTClamp(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg)
	e.SetDirection(false, true)

	start := e.Snapshot().Paddle.X
	e.Update(3.0) // stalled tab
	if got := e.Snapshot().Paddle.X - start; !approx(got, cfg.Paddle.Speed*cfg.Timing.MaxDT) {
		t.Errorf("paddle moved %v, expected clamp to %v", got, cfg.Paddle.Speed*cfg.Timing.MaxDT)
	}

	start = e.Snapshot().Paddle.X
	e.Update(-1)
	if e.Snapshot().Paddle.X != start {
		t.Error("negative dt should not move anything")
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	cfg := testConfig()
	e := NewEngine(cfg, 600, 400, NewSimpleRNG(7))
	e.Start()

	prev := 0
	for i := range 20_000 {
		if e.State() == StateGameOver {
			e.Start()
			prev = 0
		}
		// Chase the lowest ball so runs last a while
		if len(e.balls) > 0 {
			e.SetPaddleTarget(e.balls[0].X)
		}
		if i%60 == 0 {
			e.Serve()
		}
		e.Update(1.0 / 60)
		if e.Score() < prev {
			t.Fatalf("score decreased from %d to %d at tick %d", prev, e.Score(), i)
		}
		prev = e.Score()
		if m := e.HUD().SpeedMult; m < 1 || m > cfg.Progression.MaxSpeedMult {
			t.Fatalf("speed multiplier %v out of range", m)
		}
		if e.State() == StatePlaying && len(e.balls) == 0 {
			t.Fatalf("no balls while playing at tick %d", i)
		}
	}
}

func TestEngineDeterminism(t *testing.T) {
	run := func() uint64 {
		e := NewEngine(testConfig(), 640, 300, NewSimpleRNG(12345))
		e.Start()
		for i := range 1500 {
			switch {
			case i == 10:
				e.Serve()
			case i%7 < 3:
				e.SetDirection(false, true)
			default:
				e.SetDirection(true, false)
			}
			e.Update(1.0 / 60)
		}
		return e.Snapshot().Hash()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed and inputs gave different states: %d vs %d", a, b)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	snap := e.Snapshot()
	snap.Bricks[0].Alive = false
	snap.Balls[0].X = -1
	if !e.bricks[0].Alive || e.balls[0].X == -1 {
		t.Error("mutating a snapshot changed the engine")
	}
	if snap.AliveBricks() != len(e.bricks)-1 {
		t.Errorf("AliveBricks = %d", snap.AliveBricks())
	}
}

func TestHUDString(t *testing.T) {
	h := HUD{Score: 120, Level: 2, Lives: 3, SpeedMult: 1.15, Balls: 2}
	want := "Score: 120   Level: 2   Lives: 3   Speed: x1.15   Balls: 2"
	if h.String() != want {
		t.Errorf("HUD.String() = %q", h.String())
	}
}

func TestBuildBricksLayout(t *testing.T) {
	cfg := testConfig().Bricks
	bricks := buildBricks(cfg, 600)
	if len(bricks) != cfg.Rows*cfg.Cols {
		t.Fatalf("got %d bricks", len(bricks))
	}

	first, last := bricks[0], bricks[cfg.Cols-1]
	if first.X < cfg.SideMargin || last.X+last.W > 600-cfg.SideMargin {
		t.Errorf("row exceeds side margins: first=%v last=%v", first.X, last.X+last.W)
	}
	if !approx(first.X-cfg.SideMargin, 600-cfg.SideMargin-(last.X+last.W)) {
		t.Error("row should be centered")
	}
	if bricks[cfg.Cols].Y != cfg.Top+cfg.Height+cfg.Padding {
		t.Errorf("second row y = %v", bricks[cfg.Cols].Y)
	}
	for i, b := range bricks {
		if !b.Alive || b.Tier != TierForRow(i/cfg.Cols) {
			t.Errorf("brick %d = %+v", i, b)
		}
	}

	// Degenerate grid sizes are clamped, not rejected
	cfg.Rows, cfg.Cols = 0, -3
	if n := len(buildBricks(cfg, 600)); n != 1 {
		t.Errorf("degenerate grid built %d bricks, expected 1", n)
	}
}

func TestResizeKeepsBricksInField(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
	}{
		{"shrink", 1200, 400},
		{"grow", 400, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(testConfig(), tt.from, 400, &scriptRNG{})
			e.Start()
			e.bricks[3].Alive = false
			e.bricks[len(e.bricks)-1].Alive = false
			e.items = append(e.items, FallingItem{X: tt.from - 50, Y: 200, Kind: ItemLaser, Speed: 140})
			alive := countAlive(e.bricks)

			e.Resize(tt.to, 400)

			if n := countAlive(e.bricks); n != alive {
				t.Errorf("alive bricks = %d after resize, want %d", n, alive)
			}
			if e.bricks[3].Alive || e.bricks[len(e.bricks)-1].Alive {
				t.Error("dead bricks came back after resize")
			}
			for i, b := range e.bricks {
				if b.Alive && (b.X < 0 || b.X+b.W > e.Width()) {
					t.Errorf("brick %d spans [%v, %v], outside [0, %v]", i, b.X, b.X+b.W, e.Width())
				}
			}
			if x := e.items[0].X; x < 0 || x > e.Width() {
				t.Errorf("item x = %v, outside [0, %v]", x, e.Width())
			}
		})
	}
}
