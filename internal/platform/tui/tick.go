// Package tui runs the invaders game in a terminal with Bubble Tea, either
// locally or per SSH session through Wish. It maps keys to game actions,
// drives the fixed-rate tick loop and hosts the menu and score screens.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Game identifies the
// model that scheduled it, so a tick left over from a finished game is
// dropped instead of starting a second loop.
type TickMsg struct {
	At   time.Time
	Game uint64
}

var gameIDs atomic.Uint64

func nextGameID() uint64 {
	return gameIDs.Add(1)
}

// tickCmd schedules the next simulation tick for game.
func tickCmd(tickRate int, game uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Game: game}
	})
}
