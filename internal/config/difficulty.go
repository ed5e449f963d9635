package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name means "no preset".
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyBreakoutPreset modifies the config based on a difficulty preset.
// Normal keeps whatever the loaded config says.
func ApplyBreakoutPreset(cfg *BreakoutConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Paddle.WidthRatio *= 1.25
		cfg.Ball.Speed *= 0.8
		cfg.Progression.MaxSpeedMult = 1.6
	case DifficultyHard:
		cfg.Gameplay.Lives = 2
		cfg.Paddle.WidthRatio *= 0.8
		cfg.Ball.Speed *= 1.2
		cfg.Progression.MaxSpeedMult = 2.5
	}
}
