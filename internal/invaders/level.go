package invaders

import (
	"math/rand"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Listener receives every event a level raises.
type Listener interface {
	GroupListener
	PlayerListener
	PowerUpListener
}

// Level is one screen of play: the grid, the base, the mystery ship, the
// shelters and whatever is in flight. Destroying it discards all of them.
type Level struct {
	cfg config.Config

	group    *InvadersGroup
	player   *PlayerBase
	ship     *MysteryShip
	shelters *SheltersGroup

	missiles []*Missile
	lasers   []*Laser

	destroyed bool
}

// NewLevel builds a level and wires its events to listener. The grid is
// empty until RollOut.
func NewLevel(cfg config.Config, rng *rand.Rand, listener Listener) *Level {
	l := &Level{cfg: cfg}

	powerUp, err := ParsePowerUp(cfg.Mystery.PowerUp)
	if err != nil {
		powerUp = PowerUpLife
	}

	l.group = NewInvadersGroup(cfg, rng, l, listener)
	l.player = NewPlayerBase(cfg, l, listener)
	l.ship = NewMysteryShip(cfg, powerUp, listener)
	l.shelters = NewSheltersGroup(cfg)
	return l
}

// RollOut lays out the grid for the given level number.
func (l *Level) RollOut(level int) {
	l.group.RollOut(level)
}

// SpawnMissile adds a missile to the level.
func (l *Level) SpawnMissile(pos core.Vec2, style MissileStyle, onDestroyed func(*Missile)) *Missile {
	m := newMissile(pos, style, l.cfg, onDestroyed)
	if l.destroyed {
		m.Kill()
		return m
	}
	l.missiles = append(l.missiles, m)
	return m
}

// SpawnLaser adds a laser to the level.
func (l *Level) SpawnLaser(pos core.Vec2, onDestroyed func(*Laser)) *Laser {
	ls := newLaser(pos, l.cfg, onDestroyed)
	if l.destroyed {
		ls.Kill()
		return ls
	}
	l.lasers = append(l.lasers, ls)
	return ls
}

// Update runs one tick: movement first, then collisions. Any listener may
// destroy the level mid-tick, after which nothing else happens.
func (l *Level) Update(dt float64, in core.InputFrame) {
	if l.destroyed {
		return
	}

	l.player.Update(dt, in)
	l.group.Update(dt)
	if l.destroyed {
		return
	}
	for _, m := range l.missiles {
		m.Update(dt)
	}
	for _, ls := range l.lasers {
		ls.Update(dt)
	}
	l.ship.Update(dt)

	l.resolveCollisions()
	if l.destroyed {
		return
	}
	l.compact()
}

func (l *Level) resolveCollisions() {
	for _, ls := range l.lasers {
		if !ls.Alive() {
			continue
		}
		c := ls.Collider()
		if l.hitShelters(c) {
			continue
		}
		var target *Invader
		for _, inv := range l.group.ActiveInvaders() {
			if inv.Box().Intersects(c.Box) && (target == nil || closer(c.From, inv.Position(), target.Position())) {
				target = inv
			}
		}
		if target != nil {
			target.handler.TriggerEnter(c)
		}
		if l.destroyed {
			return
		}
		if !ls.Alive() {
			continue
		}
		if l.ship.Flying() && l.ship.Box().Intersects(c.Box) {
			l.ship.handler.TriggerEnter(c)
			if l.destroyed {
				return
			}
		}
	}

	for _, m := range l.missiles {
		if !m.Alive() {
			continue
		}
		c := m.Collider()
		if l.hitShelters(c) {
			continue
		}
		for _, inv := range l.group.ActiveInvaders() {
			if inv.Box().Intersects(c.Box) {
				inv.handler.TriggerEnter(c)
			}
		}
		if !l.player.Hidden() && l.player.Box().Intersects(c.Box) {
			l.player.handler.TriggerEnter(c)
			if l.destroyed {
				return
			}
		}
	}
}

// hitShelters delivers c to the standing brick it reaches first.
func (l *Level) hitShelters(c Collider) bool {
	if !l.shelters.Active() {
		return false
	}
	var target *ShelterBrick
	for _, b := range l.shelters.bricks {
		if b.active && b.Box().Intersects(c.Box) && (target == nil || closer(c.From, b.pos, target.pos)) {
			target = b
		}
	}
	if target == nil {
		return false
	}
	target.handler.TriggerEnter(c)
	return true
}

// closer reports whether a is nearer to from than b.
func closer(from, a, b core.Vec2) bool {
	da := (a.X-from.X)*(a.X-from.X) + (a.Y-from.Y)*(a.Y-from.Y)
	db := (b.X-from.X)*(b.X-from.X) + (b.Y-from.Y)*(b.Y-from.Y)
	return da < db
}

// compact drops dead projectiles.
func (l *Level) compact() {
	missiles := l.missiles[:0]
	for _, m := range l.missiles {
		if m.Alive() {
			missiles = append(missiles, m)
		}
	}
	for i := len(missiles); i < len(l.missiles); i++ {
		l.missiles[i] = nil
	}
	l.missiles = missiles

	lasers := l.lasers[:0]
	for _, ls := range l.lasers {
		if ls.Alive() {
			lasers = append(lasers, ls)
		}
	}
	for i := len(lasers); i < len(l.lasers); i++ {
		l.lasers[i] = nil
	}
	l.lasers = lasers
}

// Destroy tears the level down. Projectiles in flight are discarded without
// notifying their owners, who go away with the level.
func (l *Level) Destroy() {
	if l.destroyed {
		return
	}
	l.destroyed = true
	l.missiles = nil
	l.lasers = nil
}

// Destroyed reports whether Destroy has been called.
func (l *Level) Destroyed() bool { return l.destroyed }

// Group returns the invader grid.
func (l *Level) Group() *InvadersGroup { return l.group }

// Player returns the player base.
func (l *Level) Player() *PlayerBase { return l.player }

// Ship returns the mystery ship.
func (l *Level) Ship() *MysteryShip { return l.ship }

// Shelters returns the shelter group.
func (l *Level) Shelters() *SheltersGroup { return l.shelters }

// Missiles returns the missiles in flight.
func (l *Level) Missiles() []*Missile { return l.missiles }

// Lasers returns the lasers in flight.
func (l *Level) Lasers() []*Laser { return l.lasers }
