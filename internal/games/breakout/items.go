package breakout

import "github.com/vovakirdan/retrohub/internal/core"

// rollDrop may spawn an item at the center of a destroyed brick.
// The chance comes from the brick's tier; the kind is a coin flip.
func (e *Engine) rollDrop(br Brick) {
	if e.rng.Intn(100) >= br.Tier.DropRate() {
		return
	}
	kind := ItemDuplicate
	if e.rng.Intn(2) == 1 {
		kind = ItemLaser
	}
	cx, cy := br.Rect().Center()
	e.items = append(e.items, FallingItem{
		X:     cx,
		Y:     cy,
		Kind:  kind,
		Speed: e.cfg.Items.FallSpeed,
	})
}

// updateItems drops every item, applies the ones the paddle catches and
// discards the ones that fall out. Returns the number caught and the number
// of bricks destroyed by caught lasers.
func (e *Engine) updateItems(dt float64) (caught, destroyed int) {
	paddle := e.paddle.Rect()

	kept := e.items[:0]
	for _, it := range e.items {
		it.Y += it.Speed * dt
		if core.CircleIntersectsRect(it.X, it.Y, e.cfg.Items.Radius, paddle) {
			caught++
			destroyed += e.applyItem(it.Kind)
			continue
		}
		if it.Y-e.cfg.Items.Radius > e.height {
			continue
		}
		kept = append(kept, it)
	}
	// applyItem never touches e.items, so kept is still the live slice.
	e.items = kept
	return caught, destroyed
}

// applyItem runs an item's effect. Returns bricks destroyed.
func (e *Engine) applyItem(kind ItemKind) int {
	switch kind {
	case ItemDuplicate:
		e.duplicateBall()
	case ItemLaser:
		return e.fireLaser()
	}
	return 0
}

// duplicateBall adds a free ball above the paddle center heading upward at
// a random angle within the configured spread.
func (e *Engine) duplicateBall() {
	b := Ball{R: e.ballRadius()}
	e.placeOnPaddle(&b)
	angle := e.randomAngle(degToRad(e.cfg.Items.DuplicateAngle))
	b.VX, b.VY = launchVelocity(e.ballSpeed(), angle)
	e.balls = append(e.balls, b)
	e.score += e.cfg.Items.DuplicateBonus
}

// fireLaser destroys every alive brick whose horizontal span contains the
// paddle center and leaves a beam there. Laser kills do not roll drops.
func (e *Engine) fireLaser() int {
	x := e.paddle.CenterX()
	n := 0
	for i := range e.bricks {
		br := &e.bricks[i]
		if br.Alive && br.Rect().ContainsX(x) {
			br.Alive = false
			n++
		}
	}
	e.score += (e.cfg.Gameplay.BrickPoints*e.level + e.cfg.Items.LaserBonus) * n
	e.laser = &LaserEffect{X: x, TTL: e.cfg.Items.LaserDuration}
	return n
}
