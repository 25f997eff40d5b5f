package invaders

import "github.com/vovakirdan/tui-invaders/internal/core"

// Spawner creates projectiles inside the current level.
type Spawner interface {
	SpawnMissile(pos core.Vec2, style MissileStyle, onDestroyed func(*Missile)) *Missile
	SpawnLaser(pos core.Vec2, onDestroyed func(*Laser)) *Laser
}

// Invader is one cell of the grid. Its position is relative to the group
// origin so that moving the group moves every invader.
type Invader struct {
	Row, Col int
	Score    int
	Style    MissileStyle
	Glyph    rune

	group    *InvadersGroup
	local    core.Vec2
	active   bool
	firing   bool
	activeAt int
	handler  *CollisionHandler
}

func newInvader(g *InvadersGroup, row, col int, local core.Vec2, score int, style MissileStyle, glyph rune) *Invader {
	inv := &Invader{
		Row:      row,
		Col:      col,
		Score:    score,
		Style:    style,
		Glyph:    glyph,
		group:    g,
		local:    local,
		active:   true,
		activeAt: -1,
		handler:  NewCollisionHandler(KindInvader),
	}
	inv.handler.OnTriggerEntered(inv.triggerEntered)
	return inv
}

// Position returns the world position of the invader.
func (inv *Invader) Position() core.Vec2 {
	return inv.group.origin.Add(inv.local)
}

// Active reports whether the invader is still alive.
func (inv *Invader) Active() bool { return inv.active }

// MissileInFlight reports whether this invader's missile is still falling.
func (inv *Invader) MissileInFlight() bool { return inv.firing }

// Box returns the world bounds of the invader.
func (inv *Invader) Box() core.Box {
	cfg := inv.group.cfg.Grid
	return core.NewBox(inv.Position(), cfg.HalfWidth, cfg.HalfHeight)
}

// Drop fires a missile of the invader's style. It does nothing while the
// previous missile is still in flight.
func (inv *Invader) Drop() bool {
	if !inv.active || inv.firing || inv.group.spawner == nil {
		return false
	}
	inv.firing = true
	inv.group.spawner.SpawnMissile(inv.Position(), inv.Style, func(*Missile) {
		inv.firing = false
	})
	return true
}

func (inv *Invader) triggerEntered(other Collider) {
	// Missiles start inside the grid; they never hurt invaders.
	if other.Kind == KindMissile || !inv.active {
		return
	}
	inv.group.invaderKilled(inv)
	if other.Projectile != nil {
		other.Projectile.Kill()
	}
}
