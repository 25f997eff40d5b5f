package invaders

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Session is the state of one run from start to game over.
type Session struct {
	Score     int
	HighScore int
	Lives     int
	Level     int
	GameOver  bool
}

// Summary is what the game-over screen shows.
type Summary struct {
	FinalScore int
	HighScores []int
}

// GameManager runs a session: it owns the current level, listens to its
// events and applies scoring, lives, level advance and game over.
type GameManager struct {
	cfg    config.Config
	rng    *rand.Rand
	prefs  PrefsStore
	logger *log.Logger

	level   *Level
	session Session
	table   HighScoreTable
	summary Summary
}

// NewGameManager creates a manager. A nil prefs store keeps high scores in
// memory only; a nil logger discards log output.
func NewGameManager(cfg config.Config, seed int64, prefs PrefsStore, logger *log.Logger) *GameManager {
	if prefs == nil {
		prefs = NewMemoryPrefs()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GameManager{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		prefs:  prefs,
		logger: logger,
	}
}

// StartSession loads the high-score table and starts level 1.
func (m *GameManager) StartSession() {
	table, err := LoadHighScoreTable(m.prefs, m.cfg.Session.HighScoreKey, m.cfg.Session.HighScoreCount)
	if err != nil {
		m.logger.Warn("starting with an empty high score table", "error", err)
	}
	m.table = table
	m.resetSession()
	m.startGame()
}

func (m *GameManager) resetSession() {
	m.session = Session{
		Score:     0,
		HighScore: m.table.Highest(),
		Lives:     m.cfg.Session.Lives,
		Level:     1,
	}
	m.summary = Summary{}
}

func (m *GameManager) startGame() {
	m.destroyLevel()
	m.level = NewLevel(m.cfg, m.rng, m)
	m.level.RollOut(m.session.Level)
	m.logger.Debug("level started", "level", m.session.Level)
}

func (m *GameManager) destroyLevel() {
	if m.level != nil {
		m.level.Destroy()
		m.level = nil
	}
}

// Tick advances the session by dt seconds. While the game is over only a
// restart press does anything.
func (m *GameManager) Tick(dt float64, in core.InputFrame) {
	if m.session.GameOver {
		m.RestartIfGameOver(in)
		return
	}
	if m.level != nil {
		m.level.Update(dt, in)
	}
}

// RestartIfGameOver starts a fresh session when the game is over and the
// input carries a restart press.
func (m *GameManager) RestartIfGameOver(in core.InputFrame) bool {
	if !m.session.GameOver || !in.Has(core.ActionRestart) {
		return false
	}
	m.resetSession()
	m.startGame()
	m.logger.Info("session restarted")
	return true
}

// OnInvaderKilled adds the invader's value to the score. Landing exactly
// on a multiple of the life score grants a life.
func (m *GameManager) OnInvaderKilled(score int) {
	m.addScore(score)
}

func (m *GameManager) addScore(v int) {
	m.session.Score += v
	if m.session.Score > m.session.HighScore {
		m.session.HighScore = m.session.Score
	}
	if ls := m.cfg.Session.LifeScore; ls > 0 && m.session.Score%ls == 0 {
		m.session.Lives++
		m.logger.Info("bonus life", "score", m.session.Score, "lives", m.session.Lives)
	}
}

// OnAllInvadersKilled advances to the next level, wrapping after the last.
func (m *GameManager) OnAllInvadersKilled() {
	if m.session.GameOver {
		return
	}
	m.session.Level++
	if m.session.Level > m.cfg.Session.Levels {
		m.session.Level = 1
	}
	m.logger.Info("level cleared", "next", m.session.Level, "score", m.session.Score)
	m.startGame()
}

// OnGridStepped removes the shelters once the grid is low and ends the
// game when it reaches the bottom.
func (m *GameManager) OnGridStepped(step int) {
	if m.session.GameOver {
		return
	}
	if step > m.cfg.Grid.ShelterStep && m.level != nil && m.level.Shelters().Active() {
		m.level.Shelters().SetActive(false)
		m.logger.Debug("shelters removed", "step", step)
	}
	if step > m.cfg.Grid.TotalSteps {
		m.logger.Info("invaders landed", "step", step)
		m.gameOver()
	}
}

// OnPlayerKilled takes a life and ends the game on the last one.
func (m *GameManager) OnPlayerKilled() {
	if m.session.GameOver {
		return
	}
	m.session.Lives--
	if m.session.Lives <= 0 {
		m.session.Lives = 0
		m.gameOver()
	}
}

// OnPowerUp applies the mystery ship reward.
func (m *GameManager) OnPowerUp(t PowerUpType) {
	switch t {
	case PowerUpLife:
		m.session.Lives++
		m.logger.Info("power-up", "type", t, "lives", m.session.Lives)
	default:
		m.logger.Info("power-up has no effect", "type", t)
	}
}

func (m *GameManager) gameOver() {
	if m.session.GameOver {
		return
	}
	m.destroyLevel()
	m.session.GameOver = true

	m.table.Add(m.session.Score, m.cfg.Session.HighScoreCount)
	if err := SaveHighScoreTable(m.prefs, m.cfg.Session.HighScoreKey, m.table); err != nil {
		m.logger.Warn("could not persist high scores", "error", err)
	}
	m.summary = Summary{
		FinalScore: m.session.Score,
		HighScores: m.table.Display(),
	}
	m.logger.Info("game over", "score", m.session.Score, "level", m.session.Level)
}

// Session returns a copy of the session state.
func (m *GameManager) Session() Session { return m.session }

// Summary returns the game-over summary. It is empty while playing.
func (m *GameManager) Summary() Summary { return m.summary }

// HighScores returns the table highest first.
func (m *GameManager) HighScores() []int { return m.table.Display() }

// Level returns the current level, nil while the game is over.
func (m *GameManager) Level() *Level { return m.level }
