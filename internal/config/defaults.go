package config

import (
	_ "embed"
)

//go:embed defaults/invaders.yaml
var defaultInvadersYAML []byte

// DefaultConfig returns the hard-coded default configuration. It mirrors
// defaults/invaders.yaml and is used when the embedded file cannot be parsed.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			XBound: 10.0,
			YBound: 12.0,
			Floor:  -1.0,
		},
		Grid: GridConfig{
			Rows:         5,
			Columns:      11,
			GapX:         0.8,
			GapY:         0.8,
			OriginY:      10.0,
			BaseSpeed:    1.0,
			SpeedPerKill: 0.02,
			StepVertical: 0.8,
			TotalSteps:   11,
			ShelterStep:  7,
			DropInterval: 2.0,
			HalfWidth:    0.3,
			HalfHeight:   0.25,
			InvaderRows: []InvaderRow{
				{Score: 10, Missile: "slow", Glyph: "W"},
				{Score: 10, Missile: "slow", Glyph: "W"},
				{Score: 20, Missile: "fast", Glyph: "M"},
				{Score: 20, Missile: "fast", Glyph: "M"},
				{Score: 30, Missile: "wiggly", Glyph: "V"},
			},
		},
		Player: PlayerConfig{
			Y:          0.0,
			Speed:      5.0,
			HitLockout: 1.0,
			LaserSpeed: 30.0,
			HalfWidth:  0.5,
			HalfHeight: 0.25,
		},
		Missile: MissileConfig{
			SlowSpeed:       5.0,
			FastSpeed:       10.0,
			WigglySpeed:     5.0,
			WiggleFrequency: 20.0,
			WiggleMagnitude: 0.03,
		},
		Mystery: MysteryConfig{
			Y:              11.5,
			Speed:          3.0,
			AppearInterval: 20.0,
			PowerUp:        "life",
		},
		Shelters: ShelterConfig{
			Count:     4,
			Y:         2.5,
			BrickSize: 0.3,
			Pattern:   []string{"####", "####", "#..#"},
		},
		Session: SessionConfig{
			Lives:          3,
			Levels:         9,
			LifeScore:      10000,
			HighScoreCount: 5,
			HighScoreKey:   "HIGH_SCORE_TABLE",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultInvadersYAML
}
