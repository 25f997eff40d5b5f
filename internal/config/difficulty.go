package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the file values untouched. Fixed keeps the grid at its base
// speed no matter how many invaders fall.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Session.Lives = 5
		cfg.Grid.BaseSpeed *= 0.75
		cfg.Grid.DropInterval *= 1.5
	case DifficultyHard:
		cfg.Session.Lives = 2
		cfg.Grid.BaseSpeed *= 1.5
		cfg.Grid.DropInterval *= 0.5
	case DifficultyFixed:
		cfg.Grid.SpeedPerKill = 0
	}
}
