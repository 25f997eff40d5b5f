package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/invaders"
)

// MenuChoice is what the player picked on the title screen.
type MenuChoice int

const (
	MenuNone MenuChoice = iota
	MenuPlay
	MenuScores
	MenuQuit
)

type menuItem struct {
	title  string
	choice MenuChoice
}

var menuItems = []menuItem{
	{"Play", MenuPlay},
	{"High Scores", MenuScores},
	{"Quit", MenuQuit},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var titleArt = []string{
	"S P A C E",
	"I N V A D E R S",
}

// MenuModel is the title screen.
type MenuModel struct {
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	highScore int
	keys      MenuKeyMap
	help      help.Model
	choice    MenuChoice
}

// NewMenuModel creates the title screen. The best score is read from
// prefs under key; a missing or unreadable table shows zero.
func NewMenuModel(cfg core.RuntimeConfig, prefs invaders.PrefsStore, prefsKey string) MenuModel {
	table, _ := invaders.LoadHighScoreTable(prefs, prefsKey, 0) //nolint:errcheck // Zero on failure
	h := help.New()
	h.Width = cfg.ScreenW

	return MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		highScore: table.Highest(),
		keys:      DefaultMenuKeyMap(),
		help:      h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = MenuQuit
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choice = menuItems[m.cursor].choice
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice == MenuQuit {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range titleArt {
		b.WriteString(titleStyle.Render(centerText(line, m.width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText(fmt.Sprintf("HI %05d", m.highScore), m.width)))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(centerText("> "+item.title, m.width)))
		} else {
			b.WriteString(centerText("  "+item.title, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText(m.help.View(m.keys), m.width)))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the selected entry, or MenuNone while the menu is open.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Config returns the runtime config updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within width cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunMenu shows the title screen and returns the choice and the possibly
// resized runtime config.
func RunMenu(cfg core.RuntimeConfig, prefs invaders.PrefsStore, prefsKey string) (MenuChoice, core.RuntimeConfig, error) {
	p := tea.NewProgram(NewMenuModel(cfg, prefs, prefsKey), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuQuit, cfg, err
	}
	m, ok := final.(MenuModel)
	if !ok || m.Choice() == MenuNone {
		return MenuQuit, cfg, nil
	}
	return m.Choice(), m.Config(), nil
}
