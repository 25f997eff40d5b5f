package invaders

import "math"

// Snapshot is a flat copy of the simulation for determinism tests.
type Snapshot struct {
	Tick      uint64
	Score     int
	HighScore int
	Lives     int
	Level     int
	GameOver  bool

	Step      int
	Killed    int
	Direction int
	OriginX   float64
	OriginY   float64

	PlayerX      float64
	PlayerHidden bool
	ShipX        float64
	ShipFlying   bool

	// Alive flags of the grid, row-major bottom first.
	Alive []bool
	// Standing flags of the shelter bricks.
	Bricks []bool
	// Positions of missiles then lasers in flight as x, y pairs.
	Projectiles []float64
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	if g.manager == nil {
		return Snapshot{}
	}
	s := g.manager.Session()
	snap := Snapshot{
		Tick:      g.tick,
		Score:     s.Score,
		HighScore: s.HighScore,
		Lives:     s.Lives,
		Level:     s.Level,
		GameOver:  s.GameOver,
	}

	level := g.manager.Level()
	if level == nil {
		return snap
	}

	group := level.Group()
	snap.Step = group.Step()
	snap.Killed = group.Killed()
	snap.Direction = int(group.Direction())
	snap.OriginX = group.Origin().X
	snap.OriginY = group.Origin().Y
	snap.Alive = make([]bool, len(group.Invaders()))
	for i, inv := range group.Invaders() {
		snap.Alive[i] = inv.Active()
	}

	snap.PlayerX = level.Player().Position().X
	snap.PlayerHidden = level.Player().Hidden()
	snap.ShipX = level.Ship().Position().X
	snap.ShipFlying = level.Ship().Flying()

	bricks := level.Shelters().Bricks()
	snap.Bricks = make([]bool, len(bricks))
	for i, b := range bricks {
		snap.Bricks[i] = b.Active()
	}

	for _, m := range level.Missiles() {
		p := m.Position()
		snap.Projectiles = append(snap.Projectiles, p.X, p.Y)
	}
	for _, l := range level.Lasers() {
		p := l.Position()
		snap.Projectiles = append(snap.Projectiles, p.X, p.Y)
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	for _, v := range []int{snap.Score, snap.HighScore, snap.Lives, snap.Level, snap.Step, snap.Killed, snap.Direction} {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	for _, f := range []float64{snap.OriginX, snap.OriginY, snap.PlayerX, snap.ShipX} {
		h = h*31 + math.Float64bits(f)
	}
	for _, b := range []bool{snap.GameOver, snap.PlayerHidden, snap.ShipFlying} {
		h = h*31 + boolBit(b)
	}
	for _, b := range snap.Alive {
		h = h*31 + boolBit(b)
	}
	for _, b := range snap.Bricks {
		h = h*31 + boolBit(b)
	}
	for _, f := range snap.Projectiles {
		h = h*31 + math.Float64bits(f)
	}
	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
