package invaders

import (
	"testing"

	"github.com/vovakirdan/tui-invaders/internal/config"
)

func TestRollOutLayout(t *testing.T) {
	g, _ := newTestGroup(nil)
	cfg := config.DefaultConfig()

	if got, want := g.Total(), cfg.Grid.Rows*cfg.Grid.Columns; got != want {
		t.Fatalf("Total() = %d, want %d", got, want)
	}
	if g.Step() != 1 {
		t.Errorf("Step() = %d, want 1", g.Step())
	}
	if g.Direction() != 1 {
		t.Errorf("Direction() = %v, want 1", g.Direction())
	}

	// Bottom-left invader: centered grid lowered by one step.
	first := g.Invaders()[0].Position()
	if !approx(first.X, -4) || !approx(first.Y, 7.6) {
		t.Errorf("bottom-left invader at %+v, want (-4, 7.6)", first)
	}
	last := g.Invaders()[g.Total()-1].Position()
	if !approx(last.X, 4) || !approx(last.Y, 10.8) {
		t.Errorf("top-right invader at %+v, want (4, 10.8)", last)
	}
}

func TestRollOutRowTypes(t *testing.T) {
	g, _ := newTestGroup(nil)

	tests := []struct {
		row   int
		score int
		style MissileStyle
	}{
		{0, 10, MissileSlow},
		{1, 10, MissileSlow},
		{2, 20, MissileFast},
		{3, 20, MissileFast},
		{4, 30, MissileWiggly},
	}

	for _, tt := range tests {
		inv := g.Invaders()[tt.row*11]
		if inv.Row != tt.row {
			t.Fatalf("invader %d is in row %d, want %d", tt.row*11, inv.Row, tt.row)
		}
		if inv.Score != tt.score || inv.Style != tt.style {
			t.Errorf("row %d: score=%d style=%v, want %d %v", tt.row, inv.Score, inv.Style, tt.score, tt.style)
		}
	}
}

func TestRollOutLowersByLevel(t *testing.T) {
	g1, _ := newTestGroup(nil)
	g3, _ := newTestGroup(nil)
	g3.RollOut(3)

	dy := g1.Invaders()[0].Position().Y - g3.Invaders()[0].Position().Y
	if !approx(dy, 1.6) {
		t.Errorf("level 3 grid is %v lower than level 1, want 1.6", dy)
	}
	if g3.Step() != 3 {
		t.Errorf("Step() = %d, want 3", g3.Step())
	}
}

func TestKillAggregation(t *testing.T) {
	g, rec := newTestGroup(nil)
	total := g.Total()

	invaders := append([]*Invader(nil), g.Invaders()...)
	for i, inv := range invaders {
		g.Kill(inv)
		if g.Killed() != i+1 {
			t.Fatalf("Killed() = %d after %d kills", g.Killed(), i+1)
		}
		if i < total-1 && rec.allKilled != 0 {
			t.Fatalf("all-killed reported after %d of %d kills", i+1, total)
		}
	}

	if rec.allKilled != 1 {
		t.Errorf("all-killed reported %d times, want 1", rec.allKilled)
	}
	if len(rec.killed) != total {
		t.Errorf("kill events = %d, want %d", len(rec.killed), total)
	}

	sum := 0
	for _, s := range rec.killed {
		sum += s
	}
	if sum != 11*(10+10+20+20+30) {
		t.Errorf("score sum = %d, want %d", sum, 11*90)
	}

	// A dead invader cannot die again.
	g.Kill(invaders[0])
	if g.Killed() != total || len(rec.killed) != total || rec.allKilled != 1 {
		t.Errorf("second kill changed state: killed=%d events=%d all=%d", g.Killed(), len(rec.killed), rec.allKilled)
	}
	if len(g.ActiveInvaders()) != 0 {
		t.Errorf("ActiveInvaders() = %d, want 0", len(g.ActiveInvaders()))
	}
}

func TestSpeedNonDecreasing(t *testing.T) {
	g, _ := newTestGroup(nil)

	if !approx(g.Speed(), 1) {
		t.Fatalf("Speed() with no kills = %v, want 1", g.Speed())
	}

	prev := g.Speed()
	for _, inv := range append([]*Invader(nil), g.Invaders()...) {
		g.Kill(inv)
		if g.Speed() < prev {
			t.Fatalf("speed decreased from %v to %v", prev, g.Speed())
		}
		prev = g.Speed()
	}
	if !approx(prev, 1+0.02*55) {
		t.Errorf("Speed() with all killed = %v, want %v", prev, 1+0.02*55)
	}
}

func TestEdgeFlip(t *testing.T) {
	g, rec := newTestGroup(nil)
	startY := g.Origin().Y

	for i := 0; i < 100 && len(rec.steps) == 0; i++ {
		g.Update(0.1)
	}

	if len(rec.steps) != 1 || rec.steps[0] != 2 {
		t.Fatalf("step events = %v, want [2]", rec.steps)
	}
	if g.Direction() != -1 {
		t.Errorf("Direction() = %v after flip, want -1", g.Direction())
	}
	if !approx(startY-g.Origin().Y, 0.8) {
		t.Errorf("grid dropped %v, want 0.8", startY-g.Origin().Y)
	}

	// The right edge of the grid reached XBound-1 when it flipped.
	maxX := g.Invaders()[10].Position().X
	if maxX < 9-eps {
		t.Errorf("rightmost invader at %v, want >= 9", maxX)
	}

	// Moving away from the edge does not flip again.
	g.Update(0.1)
	if len(rec.steps) != 1 {
		t.Errorf("step events = %v after moving away, want one", rec.steps)
	}
}

func TestEdgeFlipUsesActiveInvadersOnly(t *testing.T) {
	g, rec := newTestGroup(nil)

	// Clear the rightmost column; the grid must travel further before flipping.
	for _, inv := range append([]*Invader(nil), g.Invaders()...) {
		if inv.Col == 10 {
			g.Kill(inv)
		}
	}

	for i := 0; i < 200 && len(rec.steps) == 0; i++ {
		g.Update(0.05)
	}
	if len(rec.steps) != 1 {
		t.Fatalf("step events = %v, want one", rec.steps)
	}
	if g.Invaders()[9].Position().X < 9-eps {
		t.Errorf("flipped with rightmost active invader at %v", g.Invaders()[9].Position().X)
	}
}

func TestDropTimer(t *testing.T) {
	sp := &fakeSpawner{cfg: config.DefaultConfig()}
	g, _ := newTestGroup(sp)

	for i := 0; i < 4; i++ {
		g.Update(0.5)
	}
	if len(sp.missiles) != 0 {
		t.Fatalf("dropped %d missiles at exactly the interval, want 0", len(sp.missiles))
	}

	g.Update(0.5)
	if len(sp.missiles) != 1 {
		t.Fatalf("dropped %d missiles after the interval, want 1", len(sp.missiles))
	}
}

func TestDropLeavesFromMarchedPosition(t *testing.T) {
	sp := &fakeSpawner{cfg: config.DefaultConfig()}
	g, _ := newTestGroup(sp)

	for i := 0; i < 5; i++ {
		g.Update(0.5)
	}
	if len(sp.missiles) != 1 {
		t.Fatalf("dropped %d missiles, want 1", len(sp.missiles))
	}

	from := sp.missiles[0].Position()
	for _, inv := range g.ActiveInvaders() {
		p := inv.Position()
		if approx(p.X, from.X) && approx(p.Y, from.Y) {
			return
		}
	}
	t.Errorf("missile left from %+v, which is no invader's position after the march", from)
}

func TestDropSkipsInvaderWithMissileInFlight(t *testing.T) {
	sp := &fakeSpawner{cfg: config.DefaultConfig()}
	g, _ := newTestGroup(sp)

	for len(g.ActiveInvaders()) > 1 {
		g.Kill(g.ActiveInvaders()[0])
	}
	last := g.ActiveInvaders()[0]

	if !g.DropRandomMissile() {
		t.Fatal("first drop failed")
	}
	if !last.MissileInFlight() {
		t.Error("MissileInFlight() = false after drop")
	}
	if g.DropRandomMissile() {
		t.Error("dropped a second missile while the first is in flight")
	}
	if len(sp.missiles) != 1 {
		t.Fatalf("missiles = %d, want 1", len(sp.missiles))
	}

	sp.missiles[0].Kill()
	if last.MissileInFlight() {
		t.Error("MissileInFlight() = true after the missile died")
	}
	if !g.DropRandomMissile() {
		t.Error("drop failed after the missile died")
	}
}

func TestDropWithNoActiveInvaders(t *testing.T) {
	sp := &fakeSpawner{cfg: config.DefaultConfig()}
	g, _ := newTestGroup(sp)

	for len(g.ActiveInvaders()) > 0 {
		g.Kill(g.ActiveInvaders()[0])
	}

	if g.DropRandomMissile() {
		t.Error("DropRandomMissile() = true with no active invaders")
	}
	for i := 0; i < 10; i++ {
		g.Update(1)
	}
	if len(sp.missiles) != 0 {
		t.Errorf("missiles = %d, want 0", len(sp.missiles))
	}
}

func TestInvaderIgnoresMissiles(t *testing.T) {
	g, rec := newTestGroup(nil)
	inv := g.Invaders()[0]
	p := inv.Position()

	m, c := missileAt(p.X, p.Y)
	inv.handler.TriggerEnter(c)
	if !inv.Active() || !m.Alive() || len(rec.killed) != 0 {
		t.Error("missile affected an invader")
	}

	l := newLaser(p, config.DefaultConfig(), nil)
	inv.handler.TriggerEnter(l.Collider())
	if inv.Active() {
		t.Error("invader survived a laser")
	}
	if l.Alive() {
		t.Error("laser survived hitting an invader")
	}
	if len(rec.killed) != 1 || rec.killed[0] != 10 {
		t.Errorf("kill events = %v, want [10]", rec.killed)
	}
}
