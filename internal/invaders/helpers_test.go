package invaders

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// recorder collects every event a level raises.
type recorder struct {
	killed    []int
	allKilled int
	steps     []int
	deaths    int
	powerUps  []PowerUpType
}

func (r *recorder) OnInvaderKilled(score int) { r.killed = append(r.killed, score) }
func (r *recorder) OnAllInvadersKilled() { r.allKilled++ }
func (r *recorder) OnGridStepped(step int) { r.steps = append(r.steps, step) }
func (r *recorder) OnPlayerKilled() { r.deaths++ }
func (r *recorder) OnPowerUp(t PowerUpType) { r.powerUps = append(r.powerUps, t) }

// fakeSpawner records projectiles without putting them in a level.
type fakeSpawner struct {
	cfg      config.Config
	missiles []*Missile
	lasers   []*Laser
}

func (s *fakeSpawner) SpawnMissile(pos core.Vec2, style MissileStyle, onDestroyed func(*Missile)) *Missile {
	m := newMissile(pos, style, s.cfg, onDestroyed)
	s.missiles = append(s.missiles, m)
	return m
}

func (s *fakeSpawner) SpawnLaser(pos core.Vec2, onDestroyed func(*Laser)) *Laser {
	l := newLaser(pos, s.cfg, onDestroyed)
	s.lasers = append(s.lasers, l)
	return l
}

func newTestGroup(spawner Spawner) (*InvadersGroup, *recorder) {
	rec := &recorder{}
	g := NewInvadersGroup(config.DefaultConfig(), rand.New(rand.NewSource(1)), spawner, rec)
	g.RollOut(1)
	return g, rec
}

func newTestLevel() (*Level, *recorder) {
	rec := &recorder{}
	l := NewLevel(config.DefaultConfig(), rand.New(rand.NewSource(1)), rec)
	l.RollOut(1)
	return l, rec
}

func laserAt(x, y float64) Collider {
	l := newLaser(core.Vec2{X: x, Y: y}, config.DefaultConfig(), nil)
	return l.Collider()
}

func missileAt(x, y float64) (*Missile, Collider) {
	m := newMissile(core.Vec2{X: x, Y: y}, MissileSlow, config.DefaultConfig(), nil)
	return m, m.Collider()
}
