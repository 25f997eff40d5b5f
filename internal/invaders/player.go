package invaders

import (
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// PlayerListener is told when the base is hit.
type PlayerListener interface {
	OnPlayerKilled()
}

// PlayerBase is the player's cannon at the bottom of the screen.
type PlayerBase struct {
	cfg      config.Config
	spawner  Spawner
	listener PlayerListener
	handler  *CollisionHandler

	pos      core.Vec2
	saved    core.Vec2
	hidden   bool
	lockout  float64
	shooting bool
}

// NewPlayerBase places the base at the bottom center.
func NewPlayerBase(cfg config.Config, spawner Spawner, listener PlayerListener) *PlayerBase {
	p := &PlayerBase{
		cfg:      cfg,
		spawner:  spawner,
		listener: listener,
		handler:  NewCollisionHandler(KindPlayer),
		pos:      core.Vec2{X: 0, Y: cfg.Player.Y},
	}
	p.handler.OnTriggerEntered(p.triggerEntered)
	return p
}

// Update moves and fires according to the input. A hidden base ignores
// input until its lockout runs out.
func (p *PlayerBase) Update(dt float64, in core.InputFrame) {
	if p.hidden {
		p.lockout -= dt
		if p.lockout <= 0 {
			p.show()
		}
		return
	}

	switch {
	case in.Has(core.ActionLeft):
		p.pos.X -= p.cfg.Player.Speed * dt
	case in.Has(core.ActionRight):
		p.pos.X += p.cfg.Player.Speed * dt
	}
	bound := p.cfg.World.XBound - 1
	p.pos.X = core.ClampF(p.pos.X, -bound, bound)

	if in.Has(core.ActionShoot) {
		p.Shoot()
	}
}

// Shoot fires a laser unless one is already in flight.
func (p *PlayerBase) Shoot() bool {
	if p.hidden || p.shooting || p.spawner == nil {
		return false
	}
	p.shooting = true
	p.spawner.SpawnLaser(p.pos, func(*Laser) {
		p.shooting = false
	})
	return true
}

func (p *PlayerBase) triggerEntered(other Collider) {
	if other.Kind != KindMissile || p.hidden {
		return
	}
	if other.Projectile != nil {
		other.Projectile.Kill()
	}
	p.hide()
	if p.listener != nil {
		p.listener.OnPlayerKilled()
	}
}

// hide parks the base off screen for the hit lockout.
func (p *PlayerBase) hide() {
	p.saved = p.pos
	p.pos = core.Vec2{X: -p.cfg.World.XBound - 1, Y: p.pos.Y}
	p.hidden = true
	p.lockout = p.cfg.Player.HitLockout
}

func (p *PlayerBase) show() {
	p.pos = p.saved
	p.hidden = false
	p.lockout = 0
}

// Position returns the current position. A hidden base reports its
// parking spot.
func (p *PlayerBase) Position() core.Vec2 { return p.pos }

// Hidden reports whether the base is in its post-hit lockout.
func (p *PlayerBase) Hidden() bool { return p.hidden }

// LaserInFlight reports whether the base's laser is still travelling.
func (p *PlayerBase) LaserInFlight() bool { return p.shooting }

// Box returns the world bounds of the base.
func (p *PlayerBase) Box() core.Box {
	return core.NewBox(p.pos, p.cfg.Player.HalfWidth, p.cfg.Player.HalfHeight)
}
