package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

// ScoreSaver records finished games.
type ScoreSaver interface {
	SaveScore(gameID, player string, score, level int) (int64, error)
}

// Observer receives game lifecycle events from a GameModel.
type Observer interface {
	GameStarted()
	GameFinished(score, level int)
	ObserveTick(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) GameStarted() {}

func (nopObserver) GameFinished(_, _ int) {}

func (nopObserver) ObserveTick(time.Duration) {}

// GameOptions configures a GameModel. Every field is optional.
type GameOptions struct {
	Store    ScoreSaver
	Player   string
	Observer Observer
	Logger   *log.Logger
}

// GameModel is the Bubble Tea model that drives one game at a fixed tick.
type GameModel struct {
	id       uint64
	game     registry.Game
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     GameKeyMap
	input    *InputState
	store    ScoreSaver
	player   string
	observer Observer
	logger   *log.Logger

	state      core.GameState
	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game. A zero seed is replaced with the
// current time.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return GameModel{
		id:       nextGameID(),
		game:     game,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:   cfg,
		keys:     DefaultGameKeyMap(),
		input:    NewInputState(),
		store:    opts.Store,
		player:   opts.Player,
		observer: opts.Observer,
		logger:   opts.Logger,
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.observer.GameStarted()
	return tickCmd(m.config.TickRate, m.id)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if msg.Game != m.id {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

func (m *GameModel) resize(width, height int) {
	m.config.ScreenW = width
	m.config.ScreenH = height
	m.screen.Resize(width, height)
	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(width, height)
		return
	}
	if !m.state.GameOver {
		m.game.Reset(m.config)
	}
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if m.state.GameOver || m.state.Paused {
			m.backToMenu = true
		}
	default:
		m.input.Press(action)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	start := time.Now()
	wasOver := m.state.GameOver

	result := m.game.Step(m.input.Frame(m.config.TickSeconds()))
	m.state = result.State
	m.observer.ObserveTick(time.Since(start))

	switch {
	case m.state.GameOver && !wasOver:
		m.finishGame()
	case wasOver && !m.state.GameOver:
		m.scoreSaved = false
		m.input.Release()
		m.observer.GameStarted()
	}

	return m, tickCmd(m.config.TickRate, m.id)
}

// finishGame records the final score once per game.
func (m *GameModel) finishGame() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true
	m.observer.GameFinished(m.state.Score, m.state.Level)

	if m.store == nil || m.state.Score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.player, m.state.Score, m.state.Level); err != nil {
		m.logger.Warn("could not save score", "game", m.game.ID(), "error", err)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.state
}

// IsQuitting reports whether the user asked to exit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to leave the game.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
