package invaders

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Glyphs for the playfield.
const (
	LaserChar   = '|'
	MissileChar = '!'
	WigglyChar  = '~'
	BrickChar   = '▓'
	GroundChar  = '─'
	PlayerGlyph = "/^\\"
	ShipGlyph   = "<o>"
)

// rowColors tints invader rows bottom first.
var rowColors = []core.Color{
	core.ColorGreen,
	core.ColorGreen,
	core.ColorCyan,
	core.ColorCyan,
	core.ColorMagenta,
}

// viewport maps world coordinates onto the screen. Row 0 is the HUD and
// the last row is the ground line.
type viewport struct {
	w, h        int
	xMin, xMax  float64
	yMin, yMax  float64
	top, bottom int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	return viewport{
		w:      dst.Width(),
		h:      dst.Height(),
		xMin:   -g.cfg.World.XBound,
		xMax:   g.cfg.World.XBound,
		yMin:   g.cfg.World.Floor,
		yMax:   g.cfg.World.YBound,
		top:    1,
		bottom: dst.Height() - 2,
	}
}

// project returns the cell for a world position. ok is false outside the
// visible field.
func (v viewport) project(p core.Vec2) (x, y int, ok bool) {
	fx := (p.X - v.xMin) / (v.xMax - v.xMin)
	fy := (v.yMax - p.Y) / (v.yMax - v.yMin)
	x = int(math.Round(fx * float64(v.w-1)))
	y = v.top + int(math.Round(fy*float64(v.bottom-v.top)))
	ok = x >= 0 && x < v.w && y >= v.top && y <= v.bottom
	return x, y, ok
}

func (v viewport) drawText(dst *core.Screen, p core.Vec2, text string, c core.Color) {
	x, y, ok := v.project(p)
	if !ok {
		return
	}
	dst.DrawTextColored(x-len([]rune(text))/2, y, text, c)
}

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH), core.ColorGray)
		return
	}
	if g.manager == nil {
		return
	}

	g.renderHUD(dst)
	dst.DrawHLine(0, dst.Height()-1, dst.Width(), GroundChar, core.ColorGreen)

	if level := g.manager.Level(); level != nil {
		v := g.viewport(dst)
		g.renderShelters(dst, v, level)
		g.renderInvaders(dst, v, level)
		g.renderShip(dst, v, level)
		g.renderProjectiles(dst, v, level)
		g.renderPlayer(dst, v, level)
	}

	g.renderOverlay(dst)
}

func (g *Game) renderHUD(dst *core.Screen) {
	s := g.manager.Session()
	left := fmt.Sprintf("SCORE %05d  HI %05d", s.Score, s.HighScore)
	right := fmt.Sprintf("LIVES %d  LEVEL %d", s.Lives, s.Level)
	dst.DrawTextColored(1, 0, left, core.ColorWhite)
	dst.DrawTextColored(dst.Width()-len(right)-1, 0, right, core.ColorWhite)
}

func (g *Game) renderShelters(dst *core.Screen, v viewport, level *Level) {
	if !level.Shelters().Active() {
		return
	}
	for _, b := range level.Shelters().Bricks() {
		if !b.Active() {
			continue
		}
		if x, y, ok := v.project(b.Position()); ok {
			dst.SetColored(x, y, BrickChar, core.ColorGreen)
		}
	}
}

func (g *Game) renderInvaders(dst *core.Screen, v viewport, level *Level) {
	for _, inv := range level.Group().Invaders() {
		if !inv.Active() {
			continue
		}
		if x, y, ok := v.project(inv.Position()); ok {
			dst.SetColored(x, y, inv.Glyph, rowColors[inv.Row%len(rowColors)])
		}
	}
}

func (g *Game) renderShip(dst *core.Screen, v viewport, level *Level) {
	ship := level.Ship()
	if !ship.Flying() {
		return
	}
	v.drawText(dst, ship.Position(), ShipGlyph, core.ColorBrightMagenta)
}

func (g *Game) renderProjectiles(dst *core.Screen, v viewport, level *Level) {
	for _, m := range level.Missiles() {
		if !m.Alive() {
			continue
		}
		ch := MissileChar
		if m.Style == MissileWiggly {
			ch = WigglyChar
		}
		if x, y, ok := v.project(m.Position()); ok {
			dst.SetColored(x, y, ch, core.ColorRed)
		}
	}
	for _, l := range level.Lasers() {
		if !l.Alive() {
			continue
		}
		if x, y, ok := v.project(l.Position()); ok {
			dst.SetColored(x, y, LaserChar, core.ColorBrightCyan)
		}
	}
}

func (g *Game) renderPlayer(dst *core.Screen, v viewport, level *Level) {
	p := level.Player()
	if p.Hidden() {
		return
	}
	v.drawText(dst, p.Position(), PlayerGlyph, core.ColorBrightGreen)
}

func (g *Game) renderOverlay(dst *core.Screen) {
	switch {
	case g.manager.Session().GameOver:
		g.renderGameOver(dst)
	case g.paused:
		g.drawCenteredBox(dst, []string{"PAUSED", "", "Press P to continue"}, core.ColorYellow)
	}
}

func (g *Game) renderGameOver(dst *core.Screen) {
	summary := g.manager.Summary()
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score: %d", summary.FinalScore),
		"",
		"HIGH SCORES",
	}
	for i, s := range summary.HighScores {
		lines = append(lines, fmt.Sprintf("%d. %6d", i+1, s))
	}
	lines = append(lines, "", "Enter/R to play again")
	g.drawCenteredBox(dst, lines, core.ColorBrightRed)
}

func (g *Game) drawCenteredBox(dst *core.Screen, lines []string, c core.Color) {
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	boxW := width + 4
	boxH := len(lines) + 2
	x := (dst.Width() - boxW) / 2
	y := (dst.Height() - boxH) / 2

	dst.FillRect(x, y, boxW, boxH, ' ')
	dst.DrawBox(x, y, boxW, boxH, c)
	for i, l := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = c
		}
		dst.DrawTextCentered(y+1+i, l, color)
	}
}
