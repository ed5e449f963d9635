package breakout

import (
	"math"

	"github.com/vovakirdan/retrohub/internal/config"
)

// buildBricks lays out a fresh grid of live bricks centered in a field of
// the given width. Row r gets tier r mod 7.
func buildBricks(cfg config.BreakoutBricks, fieldW float64) []Brick {
	rows := max(cfg.Rows, 1)
	cols := max(cfg.Cols, 1)

	areaW := fieldW - 2*cfg.SideMargin
	brickW := math.Floor((areaW - float64(cols-1)*cfg.Padding) / float64(cols))
	if brickW < 1 {
		brickW = 1
	}
	offsetX := cfg.SideMargin + (areaW-(brickW*float64(cols)+cfg.Padding*float64(cols-1)))/2

	bricks := make([]Brick, 0, rows*cols)
	for r := range rows {
		tier := TierForRow(r)
		for c := range cols {
			bricks = append(bricks, Brick{
				X:     offsetX + float64(c)*(brickW+cfg.Padding),
				Y:     cfg.Top + float64(r)*(cfg.Height+cfg.Padding),
				W:     brickW,
				H:     cfg.Height,
				Alive: true,
				Tier:  tier,
			})
		}
	}
	return bricks
}

// relayBricks builds the grid for a new field width and copies the alive
// flags of bricks across by index.
func relayBricks(old []Brick, cfg config.BreakoutBricks, fieldW float64) []Brick {
	bricks := buildBricks(cfg, fieldW)
	for i := range bricks {
		bricks[i].Alive = i < len(old) && old[i].Alive
	}
	return bricks
}

// countAlive returns the number of bricks still standing.
func countAlive(bricks []Brick) int {
	n := 0
	for _, b := range bricks {
		if b.Alive {
			n++
		}
	}
	return n
}
