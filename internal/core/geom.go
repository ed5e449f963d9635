// Package core holds the types shared by games and the platform layer:
// the character screen, geometry, input frames and run summaries.
// It imports nothing outside the standard library.
package core

// Rect represents an axis-aligned bounding box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// RectF is an axis-aligned rectangle in continuous field units.
type RectF struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r RectF) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ContainsX reports whether x lies within the horizontal span [X, X+W].
func (r RectF) ContainsX(x float64) bool {
	return x >= r.X && x <= r.Right()
}

// CircleIntersectsRect tests a circle against a rectangle by clamping the
// circle center to the rectangle and comparing squared distances.
// Touching counts as intersecting.
func CircleIntersectsRect(cx, cy, radius float64, r RectF) bool {
	closestX := ClampF(cx, r.X, r.Right())
	closestY := ClampF(cy, r.Y, r.Bottom())
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= radius*radius
}

// ClampF restricts a float64 value to be within [min, max].
// When min > max the result is min.
func ClampF(val, min, max float64) float64 {
	if val > max {
		val = max
	}
	if val < min {
		val = min
	}
	return val
}
