package core

// RuntimeConfig is what the front end tells a game when it starts: the
// terminal size, the tick rate and the RNG seed.
type RuntimeConfig struct {
	ScreenW  int   // terminal columns
	ScreenH  int   // terminal rows
	TickRate int   // simulation ticks per second
	Seed     int64 // 0 lets the front end pick one from the clock
}

// DefaultConfig returns an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickSeconds returns the simulated duration of one tick.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the summary a game reports after every tick.
type GameState struct {
	Score    int
	Lives    int
	Level    int // 1-based
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
