// Package config provides YAML-based game configuration loading and
// difficulty presets for the invaders game.
package config

import (
	"errors"
	"fmt"
)

// Config contains all tunables for one game. It is loaded once and passed by
// value to every component, so nothing mutates it after construction.
type Config struct {
	World    WorldConfig   `yaml:"world"`
	Grid     GridConfig    `yaml:"grid"`
	Player   PlayerConfig  `yaml:"player"`
	Missile  MissileConfig `yaml:"missile"`
	Mystery  MysteryConfig `yaml:"mystery"`
	Shelters ShelterConfig `yaml:"shelters"`
	Session  SessionConfig `yaml:"session"`
}

// WorldConfig defines the playfield in world units. X runs from -XBound to
// XBound, Y from Floor (bottom) to YBound (top).
type WorldConfig struct {
	XBound float64 `yaml:"x_bound"`
	YBound float64 `yaml:"y_bound"`
	Floor  float64 `yaml:"floor"`
}

// GridConfig defines the invader formation and its stepping.
type GridConfig struct {
	Rows         int          `yaml:"rows"`
	Columns      int          `yaml:"columns"`
	GapX         float64      `yaml:"gap_x"`
	GapY         float64      `yaml:"gap_y"`
	OriginY      float64      `yaml:"origin_y"`
	BaseSpeed    float64      `yaml:"base_speed"`
	SpeedPerKill float64      `yaml:"speed_per_kill"`
	StepVertical float64      `yaml:"step_vertical"`
	TotalSteps   int          `yaml:"total_steps"`
	ShelterStep  int          `yaml:"shelter_step"`
	DropInterval float64      `yaml:"drop_interval"`
	InvaderRows  []InvaderRow `yaml:"invader_rows"` // bottom row first
	HalfWidth    float64      `yaml:"half_width"`
	HalfHeight   float64      `yaml:"half_height"`
}

// InvaderRow describes one row type of the formation.
type InvaderRow struct {
	Score   int    `yaml:"score"`
	Missile string `yaml:"missile"` // slow, fast or wiggly
	Glyph   string `yaml:"glyph"`
}

// PlayerConfig defines the player base and its laser.
type PlayerConfig struct {
	Y          float64 `yaml:"y"`
	Speed      float64 `yaml:"speed"`
	HitLockout float64 `yaml:"hit_lockout"`
	LaserSpeed float64 `yaml:"laser_speed"`
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
}

// MissileConfig defines the per-style missile speeds and wiggle motion.
type MissileConfig struct {
	SlowSpeed       float64 `yaml:"slow_speed"`
	FastSpeed       float64 `yaml:"fast_speed"`
	WigglySpeed     float64 `yaml:"wiggly_speed"`
	WiggleFrequency float64 `yaml:"wiggle_frequency"`
	WiggleMagnitude float64 `yaml:"wiggle_magnitude"`
}

// MysteryConfig defines the bonus ship.
type MysteryConfig struct {
	Y              float64 `yaml:"y"`
	Speed          float64 `yaml:"speed"`
	AppearInterval float64 `yaml:"appear_interval"`
	PowerUp        string  `yaml:"power_up"` // life, thunder or shield
}

// ShelterConfig defines the shelter layout. Pattern rows are listed top to
// bottom; '#' is a brick and anything else is empty.
type ShelterConfig struct {
	Count     int      `yaml:"count"`
	Y         float64  `yaml:"y"`
	BrickSize float64  `yaml:"brick_size"`
	Pattern   []string `yaml:"pattern"`
}

// SessionConfig defines the session rules.
type SessionConfig struct {
	Lives          int    `yaml:"lives"`
	Levels         int    `yaml:"levels"`
	LifeScore      int    `yaml:"life_score"`
	HighScoreCount int    `yaml:"high_score_count"`
	HighScoreKey   string `yaml:"high_score_key"`
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.XBound > 1, "world.x_bound must be > 1, got %v", c.World.XBound)
	check(c.World.YBound > c.World.Floor, "world.y_bound must be above world.floor")
	check(c.Grid.Rows > 0, "grid.rows must be positive, got %d", c.Grid.Rows)
	check(c.Grid.Columns > 0, "grid.columns must be positive, got %d", c.Grid.Columns)
	check(len(c.Grid.InvaderRows) > 0, "grid.invader_rows must not be empty")
	for i, row := range c.Grid.InvaderRows {
		check(row.Score > 0, "grid.invader_rows[%d].score must be positive", i)
		check(validMissile(row.Missile), "grid.invader_rows[%d].missile %q is not slow, fast or wiggly", i, row.Missile)
	}
	check(c.Grid.DropInterval > 0, "grid.drop_interval must be positive")
	check(c.Grid.TotalSteps > 0, "grid.total_steps must be positive")
	check(c.Player.Speed > 0, "player.speed must be positive")
	check(c.Player.LaserSpeed > 0, "player.laser_speed must be positive")
	check(c.Mystery.AppearInterval >= 0, "mystery.appear_interval must not be negative")
	check(validPowerUp(c.Mystery.PowerUp), "mystery.power_up %q is not life, thunder or shield", c.Mystery.PowerUp)
	check(c.Session.Lives > 0, "session.lives must be positive, got %d", c.Session.Lives)
	check(c.Session.Levels > 0, "session.levels must be positive, got %d", c.Session.Levels)
	check(c.Session.LifeScore > 0, "session.life_score must be positive")
	check(c.Session.HighScoreCount > 0, "session.high_score_count must be positive")
	check(c.Session.HighScoreKey != "", "session.high_score_key must not be empty")

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RowFor returns the row type for formation row i. Rows beyond the
// configured list reuse the last entry.
func (g GridConfig) RowFor(i int) InvaderRow {
	if i < len(g.InvaderRows) {
		return g.InvaderRows[i]
	}
	return g.InvaderRows[len(g.InvaderRows)-1]
}

func validMissile(s string) bool {
	switch s {
	case "slow", "fast", "wiggly":
		return true
	}
	return false
}

func validPowerUp(s string) bool {
	switch s {
	case "life", "thunder", "shield":
		return true
	}
	return false
}
