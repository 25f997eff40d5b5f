package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/invaders"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

const testKey = "HIGH_SCORE_TABLE"

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func prefsWith(t *testing.T, scores ...int) *invaders.MemoryPrefs {
	t.Helper()
	prefs := invaders.NewMemoryPrefs()
	var table invaders.HighScoreTable
	for _, s := range scores {
		table.Add(s, 5)
	}
	if err := invaders.SaveHighScoreTable(prefs, testKey, table); err != nil {
		t.Fatal(err)
	}
	return prefs
}

func menuUpdate(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

func TestMenuShowsHighScore(t *testing.T) {
	m := NewMenuModel(testRuntime(), prefsWith(t, 120, 450), testKey)
	if !strings.Contains(m.View(), "HI 00450") {
		t.Errorf("menu should show the best score:\n%s", m.View())
	}
}

func TestMenuNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want MenuChoice
	}{
		{"play", []tea.KeyMsg{{Type: tea.KeyEnter}}, MenuPlay},
		{"scores", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, MenuScores},
		{"quit item", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, MenuQuit},
		{"clamped bottom", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyUp}, {Type: tea.KeyEnter}}, MenuScores},
		{"clamped top", []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyEnter}}, MenuPlay},
		{"q", []tea.KeyMsg{runeKey('q')}, MenuQuit},
		{"no selection", []tea.KeyMsg{{Type: tea.KeyDown}}, MenuNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMenuModel(testRuntime(), nil, testKey)
			for _, k := range tt.keys {
				m = menuUpdate(t, m, k)
			}
			if got := m.Choice(); got != tt.want {
				t.Errorf("choice = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestMenuResizeUpdatesConfig(t *testing.T) {
	m := NewMenuModel(testRuntime(), nil, testKey)
	m = menuUpdate(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	cfg := m.Config()
	if cfg.ScreenW != 120 || cfg.ScreenH != 50 {
		t.Errorf("config = %dx%d, expected 120x50", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"abcdef", 4, "abcdef"},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.want {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.want)
		}
	}
}

type fakeReader struct {
	top, recent []storage.ScoreEntry
}

func (f *fakeReader) TopScores(string, int) ([]storage.ScoreEntry, error) {
	return f.top, nil
}

func (f *fakeReader) RecentScores(string, int) ([]storage.ScoreEntry, error) {
	return f.recent, nil
}

func TestScoreboardViews(t *testing.T) {
	now := time.Now()
	reader := &fakeReader{
		top:    []storage.ScoreEntry{{Score: 900, Level: 3, Player: "ann", CreatedAt: now}},
		recent: []storage.ScoreEntry{{Score: 40, Level: 1, CreatedAt: now}, {Score: 900, Level: 3, CreatedAt: now}},
	}
	m := NewScoreboardModel(reader, prefsWith(t, 900, 40), testKey, 5, 100, 30)

	if m.CurrentView() != ViewTop || len(m.Scores()) != 1 {
		t.Fatalf("initial view = %v with %d rows", m.CurrentView(), len(m.Scores()))
	}
	view := m.View()
	if !strings.Contains(view, "HIGH SCORES - Top") {
		t.Error("missing heading")
	}
	if !strings.Contains(view, "1.    900") || !strings.Contains(view, "2.     40") {
		t.Errorf("missing high-score panel:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.CurrentView() != ViewRecent || len(m.Scores()) != 2 {
		t.Errorf("after tab view = %v with %d rows", m.CurrentView(), len(m.Scores()))
	}
}

func TestScoreboardCapsHighScorePanel(t *testing.T) {
	reader := &fakeReader{top: []storage.ScoreEntry{{Score: 900, Level: 3, CreatedAt: time.Now()}}}
	m := NewScoreboardModel(reader, prefsWith(t, 900, 40, 10), testKey, 2, 100, 30)

	view := m.View()
	if !strings.Contains(view, "2.     40") {
		t.Errorf("missing second entry:\n%s", view)
	}
	if strings.Contains(view, "3.     10") {
		t.Errorf("panel shows more than 2 entries:\n%s", view)
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, nil, testKey, 5, 60, 20)
	if len(m.Scores()) != 0 {
		t.Error("expected no rows")
	}
	if !strings.Contains(m.View(), "No games recorded yet") {
		t.Error("expected the empty message")
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, nil, testKey, 5, 60, 20)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}

	next, _ = m.Update(runeKey('q'))
	if !next.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColored(0, 0, "SCORE", core.ColorGreen)
	s.DrawText(0, 1, "LIVES 3")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, expected 2", len(lines))
	}
	if !strings.Contains(lines[0], "SCORE") || !strings.Contains(lines[1], "LIVES 3") {
		t.Errorf("unexpected output %q", out)
	}
}
