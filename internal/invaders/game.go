// Package invaders implements the Space Invaders simulation: the marching
// grid, the player base, the mystery ship, the shelters and the session
// rules that tie them together. The Game type adapts it to the fixed-tick
// platform.
package invaders

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

// ID is the registry identifier of the game.
const ID = "invaders"

// Minimum terminal size for a playable field.
const (
	MinScreenW = 40
	MinScreenH = 20
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game adapts a GameManager to the platform's fixed-tick game interface.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.Config
	prefs   PrefsStore
	logger  *log.Logger

	manager        *GameManager
	paused         bool
	tick           uint64
	screenTooSmall bool
}

// NewWithStore creates a game with an explicit prefs store and logger.
// Either may be nil.
func NewWithStore(prefs PrefsStore, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if prefs == nil {
		prefs = NewMemoryPrefs()
	}
	return &Game{prefs: prefs, logger: logger}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return ID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Space Invaders" }

// Reset loads the config and starts a new session.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.Load(configPath)
	if err != nil {
		g.logger.Warn("using default config", "error", err)
		cfg = config.DefaultConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.ResetWithConfig(runtime, cfg)
}

// ResetWithConfig starts a new session with an explicit config.
func (g *Game) ResetWithConfig(runtime core.RuntimeConfig, cfg config.Config) {
	g.runtime = runtime
	g.cfg = cfg
	g.paused = false
	g.tick = 0
	g.screenTooSmall = runtime.ScreenW < MinScreenW || runtime.ScreenH < MinScreenH

	g.manager = NewGameManager(cfg, runtime.Seed, g.prefs, g.logger)
	g.manager.StartSession()
}

// Resize adapts the game to a new terminal size without restarting it.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	g.screenTooSmall = width < MinScreenW || height < MinScreenH
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.manager == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	session := g.manager.Session()
	if in.Has(core.ActionPause) && !session.GameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.manager.Tick(g.runtime.TickSeconds(), in)

	return core.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.manager == nil {
		return core.GameState{}
	}
	s := g.manager.Session()
	return core.GameState{
		Score:    s.Score,
		Lives:    s.Lives,
		Level:    s.Level,
		GameOver: s.GameOver,
		Paused:   g.paused,
	}
}

// Manager exposes the running session.
func (g *Game) Manager() *GameManager { return g.manager }

// Config returns the config of the running session.
func (g *Game) Config() config.Config { return g.cfg }

func (g *Game) String() string {
	s := g.State()
	return fmt.Sprintf("%s score=%d lives=%d level=%d", ID, s.Score, s.Lives, s.Level)
}

func init() {
	registry.Register(ID, func(deps registry.Deps) registry.Game {
		return NewWithStore(deps.Prefs, deps.Logger)
	})
}
