package breakout

import (
	"math"

	"github.com/vovakirdan/retrohub/internal/core"
)

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// launchVelocity returns an upward velocity of the given speed, tilted by
// angle radians from vertical (positive = to the right).
func launchVelocity(speed, angle float64) (vx, vy float64) {
	return speed * math.Sin(angle), -math.Abs(speed * math.Cos(angle))
}

// reflectWalls bounces a free ball off the left, right and top edges of a
// field of the given width. The ball is clamped back inside and the velocity
// component is forced away from the wall, so speed is unchanged.
// The bottom edge is open.
func reflectWalls(b *Ball, width float64) {
	if b.X-b.R <= 0 {
		b.X = b.R
		b.VX = math.Abs(b.VX)
	}
	if b.X+b.R >= width {
		b.X = width - b.R
		b.VX = -math.Abs(b.VX)
	}
	if b.Y-b.R <= 0 {
		b.Y = b.R
		b.VY = math.Abs(b.VY)
	}
}

// bouncePaddle redirects a descending ball that overlaps the paddle.
// The rebound angle grows linearly with the impact offset from the paddle
// center, up to maxAngle radians at either edge. Speed is preserved and the
// ball always leaves upward. Returns false when there was no contact.
func bouncePaddle(b *Ball, p Paddle, maxAngle float64) bool {
	if b.VY <= 0 || !core.CircleIntersectsRect(b.X, b.Y, b.R, p.Rect()) {
		return false
	}
	rel := 0.0
	if p.W > 0 {
		rel = core.ClampF((b.X-p.CenterX())/(p.W/2), -1, 1)
	}
	b.VX, b.VY = launchVelocity(b.Speed(), rel*maxAngle)
	b.Y = p.Y - b.R - 0.1
	return true
}

// hitBrick returns the index of the first alive brick the ball overlaps,
// or -1.
func hitBrick(b *Ball, bricks []Brick) int {
	for i := range bricks {
		if !bricks[i].Alive {
			continue
		}
		if core.CircleIntersectsRect(b.X, b.Y, b.R, bricks[i].Rect()) {
			return i
		}
	}
	return -1
}

// deflectOffBrick flips the ball's horizontal velocity when it struck the
// brick more from the side than from above or below, else the vertical one.
func deflectOffBrick(b *Ball, br Brick) {
	cx, cy := br.Rect().Center()
	dx := b.X - cx
	dy := b.Y - cy
	if math.Abs(dx) > math.Abs(dy) {
		b.VX = -b.VX
	} else {
		b.VY = -b.VY
	}
}
