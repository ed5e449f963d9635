package breakout

import (
	"math"

	"github.com/vovakirdan/retrohub/internal/core"
)

// Tier is a brick's color rank. Tiers are assigned to rows in a fixed
// order and each carries its own drop rate.
type Tier int

const (
	TierRed Tier = iota
	TierOrange
	TierYellow
	TierGreen
	TierBlue
	TierIndigo
	TierViolet
	tierCount
)

// TierForRow returns the tier of the given brick row (0 = top).
func TierForRow(row int) Tier {
	return Tier(row % int(tierCount))
}

// DropRate returns the percent chance that destroying a brick of this tier
// spawns an item. The top tier never drops.
func (t Tier) DropRate() int {
	switch t {
	case TierOrange:
		return 4
	case TierYellow:
		return 6
	case TierGreen:
		return 8
	case TierBlue:
		return 10
	case TierIndigo:
		return 12
	case TierViolet:
		return 14
	default:
		return 0
	}
}

// Color returns the screen color for the tier.
func (t Tier) Color() core.Color {
	switch t {
	case TierRed:
		return core.ColorRed
	case TierOrange:
		return core.ColorOrange
	case TierYellow:
		return core.ColorYellow
	case TierGreen:
		return core.ColorGreen
	case TierBlue:
		return core.ColorBlue
	case TierIndigo:
		return core.ColorIndigo
	case TierViolet:
		return core.ColorViolet
	default:
		return core.ColorDefault
	}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierRed:
		return "red"
	case TierOrange:
		return "orange"
	case TierYellow:
		return "yellow"
	case TierGreen:
		return "green"
	case TierBlue:
		return "blue"
	case TierIndigo:
		return "indigo"
	case TierViolet:
		return "violet"
	default:
		return "unknown"
	}
}

// Brick is a single destructible block. Once Alive is false it stays dead
// until the next level is built.
type Brick struct {
	X, Y  float64 // Top-left corner
	W, H  float64
	Alive bool
	Tier  Tier
}

// Rect returns the brick bounds.
func (b Brick) Rect() core.RectF {
	return core.RectF{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// Ball is a ball in play or riding the paddle.
type Ball struct {
	X, Y   float64 // Center
	VX, VY float64 // Units per second
	R      float64
	Stuck  bool // Riding the paddle, not yet served
}

// Speed returns the magnitude of the ball's velocity.
func (b Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Paddle is the player's paddle. Only X changes during play.
type Paddle struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Rect returns the paddle bounds.
func (p Paddle) Rect() core.RectF {
	return core.RectF{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// CenterX returns the horizontal center of the paddle.
func (p Paddle) CenterX() float64 {
	return p.X + p.W/2
}

// ItemKind identifies a falling pickup.
type ItemKind int

const (
	ItemDuplicate ItemKind = iota // Extra free ball
	ItemLaser                     // Clears the column above the paddle
)

// Glyph returns the display character for an item kind.
func (k ItemKind) Glyph() rune {
	switch k {
	case ItemDuplicate:
		return '◆'
	case ItemLaser:
		return '↑'
	default:
		return '?'
	}
}

// String returns the name of the item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemDuplicate:
		return "duplicate"
	case ItemLaser:
		return "laser"
	default:
		return "?"
	}
}

// FallingItem is a pickup dropping toward the paddle.
type FallingItem struct {
	X, Y  float64 // Center
	Kind  ItemKind
	Speed float64 // Fall speed, units per second
}

// LaserEffect is the visible beam left by a caught laser item.
type LaserEffect struct {
	X   float64
	TTL float64 // Seconds left
}
