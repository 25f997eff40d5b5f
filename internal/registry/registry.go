// Package registry lets game implementations register themselves at init
// time so the CLI and the SSH server can create them by ID.
package registry

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Game is the fixed-tick contract between a simulation and the terminal
// front end. Implementations do not import Bubble Tea.
type Game interface {
	// ID is the stable identifier used on the CLI and in score storage.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh session for the given screen and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State reports score, lives, level and the game-over and pause flags.
	State() core.GameState
}

// Resizer is implemented by games that can follow a terminal resize
// without restarting.
type Resizer interface {
	Resize(width, height int)
}

// Prefs is a keyed string store a game keeps player state in.
type Prefs interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
}

// Deps are the collaborators handed to a game when it is created. Either
// may be nil; games fall back to memory and a discarding logger.
type Deps struct {
	Prefs  Prefs
	Logger *log.Logger
}

// Factory creates a new instance of a game.
type Factory func(deps Deps) Game

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a game factory. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
}

// Create instantiates a game by ID with the given collaborators.
func Create(id string, deps Deps) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(deps), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
