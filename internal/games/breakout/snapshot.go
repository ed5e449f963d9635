package breakout

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Snapshot is a read-only copy of everything a renderer needs to draw a
// frame. Slices are owned by the snapshot.
type Snapshot struct {
	Width, Height float64
	State         State
	Paddle        Paddle
	Balls         []Ball
	Bricks        []Brick // Dead bricks included, check Alive
	Items         []FallingItem
	Laser         *LaserEffect
	HUD           HUD
}

// Snapshot returns a copy of the current engine state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Width:  e.width,
		Height: e.height,
		State:  e.state,
		Paddle: e.paddle,
		Balls:  append([]Ball(nil), e.balls...),
		Bricks: append([]Brick(nil), e.bricks...),
		Items:  append([]FallingItem(nil), e.items...),
		HUD:    e.HUD(),
	}
	if e.laser != nil {
		laser := *e.laser
		snap.Laser = &laser
	}
	return snap
}

// AliveBricks returns the number of bricks still standing.
func (s Snapshot) AliveBricks() int {
	return countAlive(s.Bricks)
}

// Hash returns a digest of the snapshot for determinism testing.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	f := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:]) //nolint:errcheck // hash writes never fail
	}
	n := func(v int) { f(float64(v)) }

	n(int(s.State))
	f(s.Paddle.X)
	n(s.HUD.Score)
	n(s.HUD.Lives)
	n(s.HUD.Level)
	f(s.HUD.SpeedMult)
	for _, b := range s.Balls {
		f(b.X)
		f(b.Y)
		f(b.VX)
		f(b.VY)
	}
	for _, br := range s.Bricks {
		if br.Alive {
			n(1)
		} else {
			n(0)
		}
	}
	for _, it := range s.Items {
		f(it.X)
		f(it.Y)
		n(int(it.Kind))
	}
	if s.Laser != nil {
		f(s.Laser.X)
		f(s.Laser.TTL)
	}
	return h.Sum64()
}
