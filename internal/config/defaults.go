package config

import (
	_ "embed"
)

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

// DefaultBreakoutConfig returns the default Breakout configuration.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Field: BreakoutField{
			MinWidth:   400,
			MinHeight:  300,
			CellWidth:  8,
			CellHeight: 12,
		},
		Paddle: BreakoutPaddle{
			WidthRatio:   0.18,
			MinWidth:     80,
			Height:       14,
			BottomOffset: 40,
			Margin:       6,
			Speed:        420,
		},
		Ball: BreakoutBall{
			RadiusRatio:    0.011,
			MinRadius:      6,
			Speed:          311,
			StuckGap:       2,
			MaxBounceAngle: 75,
			ServeAngle:     45,
		},
		Bricks: BreakoutBricks{
			Rows:       6,
			Cols:       10,
			Height:     18,
			Padding:    6,
			Top:        40,
			SideMargin: 20,
		},
		Items: BreakoutItems{
			FallSpeed:      140,
			Radius:         8,
			DuplicateAngle: 30,
			DuplicateBonus: 5,
			LaserBonus:     2,
			LaserDuration:  0.4,
		},
		Progression: BreakoutProgression{
			SpeedStep:    0.15,
			MaxSpeedMult: 2.0,
			LevelPause:   1.0,
		},
		Gameplay: BreakoutGameplay{
			Lives:       3,
			BrickPoints: 10,
			StartLevel:  1,
		},
		Timing: BreakoutTiming{
			MaxDT: 0.05,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "breakout", "atari-breakout":
		return defaultBreakoutYAML
	default:
		return nil
	}
}
