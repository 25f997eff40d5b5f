package invaders

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Projectile half extents in world units.
const (
	projectileHalfW = 0.05
	projectileHalfH = 0.2
)

// MissileStyle selects how an invader missile falls.
type MissileStyle int

const (
	MissileSlow MissileStyle = iota
	MissileFast
	MissileWiggly
)

// ParseMissileStyle maps a config string to a style.
func ParseMissileStyle(s string) (MissileStyle, error) {
	switch s {
	case "slow":
		return MissileSlow, nil
	case "fast":
		return MissileFast, nil
	case "wiggly":
		return MissileWiggly, nil
	default:
		return MissileSlow, fmt.Errorf("invaders: unknown missile style %q", s)
	}
}

// String returns the config name of the style.
func (s MissileStyle) String() string {
	switch s {
	case MissileFast:
		return "fast"
	case MissileWiggly:
		return "wiggly"
	default:
		return "slow"
	}
}

// Missile is dropped by an invader and falls toward the player.
type Missile struct {
	Style MissileStyle

	pos      core.Vec2
	prev     core.Vec2
	speed    float64
	age      float64
	floor    float64
	wiggleHz float64
	wiggleA  float64

	dead        bool
	onDestroyed func(*Missile)
}

func newMissile(pos core.Vec2, style MissileStyle, cfg config.Config, onDestroyed func(*Missile)) *Missile {
	m := &Missile{
		Style:       style,
		pos:         pos,
		prev:        pos,
		floor:       cfg.World.Floor,
		wiggleHz:    cfg.Missile.WiggleFrequency,
		wiggleA:     cfg.Missile.WiggleMagnitude,
		onDestroyed: onDestroyed,
	}
	switch style {
	case MissileFast:
		m.speed = cfg.Missile.FastSpeed
	case MissileWiggly:
		m.speed = cfg.Missile.WigglySpeed
	default:
		m.speed = cfg.Missile.SlowSpeed
	}
	return m
}

// Update moves the missile down and kills it once it falls below the floor.
func (m *Missile) Update(dt float64) {
	if m.dead {
		return
	}
	m.prev = m.pos
	m.pos.Y -= m.speed * dt
	m.age += dt

	if m.Style == MissileWiggly {
		m.pos.X += math.Sin(m.age*m.wiggleHz) * m.wiggleA
	}

	if m.pos.Y < m.floor {
		m.Kill()
	}
}

// Kill removes the missile. The destroyed notification fires exactly once.
func (m *Missile) Kill() {
	if m.dead {
		return
	}
	m.dead = true
	if m.onDestroyed != nil {
		m.onDestroyed(m)
	}
}

// Alive reports whether the missile is still in play.
func (m *Missile) Alive() bool { return !m.dead }

// Position returns the current position.
func (m *Missile) Position() core.Vec2 { return m.pos }

// Collider returns the area swept since the previous tick.
func (m *Missile) Collider() Collider {
	return Collider{
		Kind:       KindMissile,
		Box:        core.Sweep(m.prev, m.pos, projectileHalfW, projectileHalfH),
		From:       m.prev,
		Projectile: m,
	}
}

// Laser is fired by the player base and travels up.
type Laser struct {
	pos     core.Vec2
	prev    core.Vec2
	speed   float64
	ceiling float64

	dead        bool
	onDestroyed func(*Laser)
}

func newLaser(pos core.Vec2, cfg config.Config, onDestroyed func(*Laser)) *Laser {
	return &Laser{
		pos:         pos,
		prev:        pos,
		speed:       cfg.Player.LaserSpeed,
		ceiling:     cfg.World.YBound,
		onDestroyed: onDestroyed,
	}
}

// Update moves the laser up and kills it past the top of the world.
func (l *Laser) Update(dt float64) {
	if l.dead {
		return
	}
	l.prev = l.pos
	l.pos.Y += l.speed * dt

	if l.pos.Y > l.ceiling {
		l.Kill()
	}
}

// Kill removes the laser. The destroyed notification fires exactly once.
func (l *Laser) Kill() {
	if l.dead {
		return
	}
	l.dead = true
	if l.onDestroyed != nil {
		l.onDestroyed(l)
	}
}

// Alive reports whether the laser is still in play.
func (l *Laser) Alive() bool { return !l.dead }

// Position returns the current position.
func (l *Laser) Position() core.Vec2 { return l.pos }

// Collider returns the area swept since the previous tick.
func (l *Laser) Collider() Collider {
	return Collider{
		Kind:       KindLaser,
		Box:        core.Sweep(l.prev, l.pos, projectileHalfW, projectileHalfH),
		From:       l.prev,
		Projectile: l,
	}
}
