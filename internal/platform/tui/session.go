package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/registry"
)

// ScoreStore records and lists finished games.
type ScoreStore interface {
	ScoreSaver
	ScoreReader
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	// GameID selects the registered game. Defaults to invaders.
	GameID string

	// Store keeps game history. Optional.
	Store ScoreStore

	// Prefs holds the high-score table under PrefsKey. Defaults to an
	// in-memory store.
	Prefs    invaders.PrefsStore
	PrefsKey string

	// HighScoreCount caps the table shown on the scoreboard. Zero shows
	// every stored entry.
	HighScoreCount int

	// Player is recorded with every saved score.
	Player string

	Observer Observer
	Logger   *log.Logger

	// SkipMenu starts a game immediately.
	SkipMenu bool
}

type sessionMode int

const (
	modeMenu sessionMode = iota
	modeGame
	modeScores
)

// SessionModel runs the title menu, the game and the scoreboard in one
// program: menu -> game -> menu.
type SessionModel struct {
	opts     SessionOptions
	config   core.RuntimeConfig
	mode     sessionMode
	menu     MenuModel
	game     GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session for one player.
func NewSessionModel(cfg core.RuntimeConfig, opts SessionOptions) SessionModel {
	if opts.GameID == "" {
		opts.GameID = invaders.ID
	}
	if opts.Prefs == nil {
		opts.Prefs = invaders.NewMemoryPrefs()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return SessionModel{
		opts:   opts,
		config: cfg,
		menu:   NewMenuModel(cfg, opts.Prefs, opts.PrefsKey),
	}
}

// Init shows the menu or starts the first game.
func (m SessionModel) Init() tea.Cmd {
	if m.opts.SkipMenu {
		return func() tea.Msg { return startGameMsg{} }
	}
	return m.menu.Init()
}

type startGameMsg struct{}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startGameMsg:
		return m.startGame()
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	game, err := registry.Create(m.opts.GameID, registry.Deps{
		Prefs:  m.opts.Prefs,
		Logger: m.opts.Logger,
	})
	if err != nil {
		m.opts.Logger.Error("cannot start game", "error", err)
		return m.toMenu()
	}
	m.game = NewGameModel(game, m.config, GameOptions{
		Store:    m.opts.Store,
		Player:   m.opts.Player,
		Observer: m.opts.Observer,
		Logger:   m.opts.Logger,
	})
	m.mode = modeGame
	return m, m.game.Init()
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.mode = modeMenu
	m.menu = NewMenuModel(m.config, m.opts.Prefs, m.opts.PrefsKey)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch m.menu.Choice() {
	case MenuQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuPlay:
		return m.startGame()
	case MenuScores:
		m.scores = NewScoreboardModel(m.opts.Store, m.opts.Prefs, m.opts.PrefsKey, m.opts.HighScoreCount, m.config.ScreenW, m.config.ScreenH)
		m.mode = modeScores
		return m, m.scores.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// InGame reports whether a game is on screen.
func (m SessionModel) InGame() bool {
	return m.mode == modeGame
}

// RunSession runs a session in the local terminal.
func RunSession(cfg core.RuntimeConfig, opts SessionOptions) error {
	model := NewSessionModel(cfg, opts)
	if !registry.Exists(model.opts.GameID) {
		return fmt.Errorf("unknown game %q", model.opts.GameID)
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
