// Package config provides YAML/TOML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

// BreakoutConfig contains all configuration for the Breakout game.
// Lengths are in field units, speeds in units per second, angles in degrees
// and durations in seconds.
type BreakoutConfig struct {
	Field       BreakoutField       `yaml:"field" toml:"field"`
	Paddle      BreakoutPaddle      `yaml:"paddle" toml:"paddle"`
	Ball        BreakoutBall        `yaml:"ball" toml:"ball"`
	Bricks      BreakoutBricks      `yaml:"bricks" toml:"bricks"`
	Items       BreakoutItems       `yaml:"items" toml:"items"`
	Progression BreakoutProgression `yaml:"progression" toml:"progression"`
	Gameplay    BreakoutGameplay    `yaml:"gameplay" toml:"gameplay"`
	Timing      BreakoutTiming      `yaml:"timing" toml:"timing"`
}

// BreakoutField defines the play-field size and its mapping to terminal cells.
type BreakoutField struct {
	MinWidth   float64 `yaml:"min_width" toml:"min_width"`
	MinHeight  float64 `yaml:"min_height" toml:"min_height"`
	CellWidth  float64 `yaml:"cell_width" toml:"cell_width"`   // Field units per terminal column
	CellHeight float64 `yaml:"cell_height" toml:"cell_height"` // Field units per terminal row
}

// BreakoutPaddle defines paddle geometry and movement.
type BreakoutPaddle struct {
	WidthRatio   float64 `yaml:"width_ratio" toml:"width_ratio"` // Fraction of field width
	MinWidth     float64 `yaml:"min_width" toml:"min_width"`
	Height       float64 `yaml:"height" toml:"height"`
	BottomOffset float64 `yaml:"bottom_offset" toml:"bottom_offset"` // Paddle top is this far above the field bottom
	Margin       float64 `yaml:"margin" toml:"margin"`
	Speed        float64 `yaml:"speed" toml:"speed"`
}

// BreakoutBall defines ball size, speed and launch angles.
type BreakoutBall struct {
	RadiusRatio    float64 `yaml:"radius_ratio" toml:"radius_ratio"` // Fraction of field width
	MinRadius      float64 `yaml:"min_radius" toml:"min_radius"`
	Speed          float64 `yaml:"speed" toml:"speed"`
	StuckGap       float64 `yaml:"stuck_gap" toml:"stuck_gap"`
	MaxBounceAngle float64 `yaml:"max_bounce_angle" toml:"max_bounce_angle"`
	ServeAngle     float64 `yaml:"serve_angle" toml:"serve_angle"` // Serve direction is uniform in [-a, +a]
}

// BreakoutBricks defines the brick grid layout.
type BreakoutBricks struct {
	Rows       int     `yaml:"rows" toml:"rows"`
	Cols       int     `yaml:"cols" toml:"cols"`
	Height     float64 `yaml:"height" toml:"height"`
	Padding    float64 `yaml:"padding" toml:"padding"`
	Top        float64 `yaml:"top" toml:"top"`
	SideMargin float64 `yaml:"side_margin" toml:"side_margin"`
}

// BreakoutItems defines falling item behaviour.
type BreakoutItems struct {
	FallSpeed      float64 `yaml:"fall_speed" toml:"fall_speed"`
	Radius         float64 `yaml:"radius" toml:"radius"`
	DuplicateAngle float64 `yaml:"duplicate_angle" toml:"duplicate_angle"`
	DuplicateBonus int     `yaml:"duplicate_bonus" toml:"duplicate_bonus"`
	LaserBonus     int     `yaml:"laser_bonus" toml:"laser_bonus"`
	LaserDuration  float64 `yaml:"laser_duration" toml:"laser_duration"`
}

// BreakoutProgression defines how the game speeds up between levels.
type BreakoutProgression struct {
	SpeedStep    float64 `yaml:"speed_step" toml:"speed_step"`
	MaxSpeedMult float64 `yaml:"max_speed_mult" toml:"max_speed_mult"`
	LevelPause   float64 `yaml:"level_pause" toml:"level_pause"`
}

// BreakoutGameplay defines scoring and lives.
type BreakoutGameplay struct {
	Lives       int `yaml:"lives" toml:"lives"`
	BrickPoints int `yaml:"brick_points" toml:"brick_points"`
	StartLevel  int `yaml:"start_level" toml:"start_level"`
}

// BreakoutTiming defines frame timing limits.
type BreakoutTiming struct {
	MaxDT float64 `yaml:"max_dt" toml:"max_dt"` // Largest step a single frame may simulate
}
