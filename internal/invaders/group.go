package invaders

import (
	"math/rand"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// GroupListener receives the grid's outgoing events.
type GroupListener interface {
	OnInvaderKilled(score int)
	OnAllInvadersKilled()
	OnGridStepped(step int)
}

// InvadersGroup is the marching formation. It owns every invader of the
// current level, moves them as one body and picks who fires.
type InvadersGroup struct {
	cfg      config.Config
	rng      *rand.Rand
	spawner  Spawner
	listener GroupListener

	origin    core.Vec2
	direction float64
	step      int
	killed    int
	dropTimer float64
	cleared   bool

	invaders []*Invader
	active   []*Invader
}

// NewInvadersGroup creates an empty group. Call RollOut to populate it.
func NewInvadersGroup(cfg config.Config, rng *rand.Rand, spawner Spawner, listener GroupListener) *InvadersGroup {
	return &InvadersGroup{
		cfg:       cfg,
		rng:       rng,
		spawner:   spawner,
		listener:  listener,
		direction: 1,
	}
}

// RollOut lays out a fresh grid lowered by step vertical steps. Rows are
// built bottom first so row 0 uses the first configured row type.
func (g *InvadersGroup) RollOut(step int) {
	grid := g.cfg.Grid

	g.origin = core.Vec2{X: 0, Y: grid.OriginY}
	g.direction = 1
	g.step = step
	g.killed = 0
	g.dropTimer = 0
	g.cleared = false
	g.invaders = make([]*Invader, 0, grid.Rows*grid.Columns)
	g.active = make([]*Invader, 0, grid.Rows*grid.Columns)

	width := grid.GapX * float64(grid.Columns-1)
	height := grid.GapY * float64(grid.Rows-1)
	centerX := -width / 2
	centerY := -height / 2

	for i := 0; i < grid.Rows; i++ {
		row := grid.RowFor(i)
		style, err := ParseMissileStyle(row.Missile)
		if err != nil {
			style = MissileSlow
		}
		glyph := '#'
		for _, r := range row.Glyph {
			glyph = r
			break
		}
		y := grid.GapY*float64(i) + centerY - float64(step)*grid.StepVertical
		for j := 0; j < grid.Columns; j++ {
			x := grid.GapX*float64(j) + centerX
			inv := newInvader(g, i, j, core.Vec2{X: x, Y: y}, row.Score, style, glyph)
			g.invaders = append(g.invaders, inv)
			g.addActive(inv)
		}
	}
}

// Update marches the grid, checks the edges and then advances the drop
// timer, so a missile leaves from where its invader ends the tick.
func (g *InvadersGroup) Update(dt float64) {
	if len(g.active) == 0 {
		return
	}

	g.origin.X += g.direction * g.Speed() * dt

	bound := g.cfg.World.XBound - 1
	for _, inv := range g.active {
		x := inv.Position().X
		if (g.direction > 0 && x >= bound) || (g.direction < 0 && x <= -bound) {
			g.MoveOneStepDown()
			break
		}
	}

	g.dropTimer += dt
	if g.dropTimer > g.cfg.Grid.DropInterval {
		g.dropTimer -= g.cfg.Grid.DropInterval
		g.DropRandomMissile()
	}
}

// Speed is the horizontal speed: the base speed plus a bonus per kill.
func (g *InvadersGroup) Speed() float64 {
	return g.cfg.Grid.BaseSpeed + g.cfg.Grid.SpeedPerKill*float64(g.killed)
}

// MoveOneStepDown lowers the grid one step, reverses its direction and
// reports the new step count.
func (g *InvadersGroup) MoveOneStepDown() {
	g.step++
	g.direction = -g.direction
	g.origin.Y -= g.cfg.Grid.StepVertical
	if g.listener != nil {
		g.listener.OnGridStepped(g.step)
	}
}

// DropRandomMissile asks a random active invader to fire. It returns false
// when nothing was fired.
func (g *InvadersGroup) DropRandomMissile() bool {
	if len(g.active) == 0 {
		return false
	}
	return g.active[g.rng.Intn(len(g.active))].Drop()
}

func (g *InvadersGroup) invaderKilled(inv *Invader) {
	if !inv.active {
		return
	}
	inv.active = false
	g.removeActive(inv)
	g.killed++

	if g.listener != nil {
		g.listener.OnInvaderKilled(inv.Score)
	}
	if g.killed == len(g.invaders) && !g.cleared {
		g.cleared = true
		if g.listener != nil {
			g.listener.OnAllInvadersKilled()
		}
	}
}

func (g *InvadersGroup) addActive(inv *Invader) {
	inv.activeAt = len(g.active)
	g.active = append(g.active, inv)
}

// removeActive swaps the last active invader into the freed slot.
func (g *InvadersGroup) removeActive(inv *Invader) {
	i := inv.activeAt
	if i < 0 || i >= len(g.active) || g.active[i] != inv {
		return
	}
	last := len(g.active) - 1
	g.active[i] = g.active[last]
	g.active[i].activeAt = i
	g.active[last] = nil
	g.active = g.active[:last]
	inv.activeAt = -1
}

// Kill deactivates inv as if a laser had hit it.
func (g *InvadersGroup) Kill(inv *Invader) {
	if inv == nil || inv.group != g {
		return
	}
	g.invaderKilled(inv)
}

// Invaders returns every invader of the grid, active or not.
func (g *InvadersGroup) Invaders() []*Invader { return g.invaders }

// ActiveInvaders returns the invaders still alive. The slice is owned by
// the group and reordered on kills.
func (g *InvadersGroup) ActiveInvaders() []*Invader { return g.active }

// Step returns how many vertical steps the grid has taken.
func (g *InvadersGroup) Step() int { return g.step }

// Direction returns +1 when marching right and -1 when marching left.
func (g *InvadersGroup) Direction() float64 { return g.direction }

// Killed returns the number of invaders killed since the last roll out.
func (g *InvadersGroup) Killed() int { return g.killed }

// Total returns the grid size.
func (g *InvadersGroup) Total() int { return len(g.invaders) }

// Origin returns the world position of the grid origin.
func (g *InvadersGroup) Origin() core.Vec2 { return g.origin }
