package invaders

import (
	"fmt"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// Mystery ship half extents in world units.
const (
	mysteryHalfW = 0.6
	mysteryHalfH = 0.25
)

// PowerUpType is the reward granted by the mystery ship.
type PowerUpType int

const (
	PowerUpLife PowerUpType = iota
	PowerUpThunder
	PowerUpShield
)

// ParsePowerUp maps a config string to a power-up.
func ParsePowerUp(s string) (PowerUpType, error) {
	switch s {
	case "life":
		return PowerUpLife, nil
	case "thunder":
		return PowerUpThunder, nil
	case "shield":
		return PowerUpShield, nil
	default:
		return PowerUpLife, fmt.Errorf("invaders: unknown power-up %q", s)
	}
}

// String returns the config name of the power-up.
func (t PowerUpType) String() string {
	switch t {
	case PowerUpThunder:
		return "thunder"
	case PowerUpShield:
		return "shield"
	default:
		return "life"
	}
}

// PowerUpListener is told when the mystery ship is shot down.
type PowerUpListener interface {
	OnPowerUp(t PowerUpType)
}

// MysteryShip crosses the top of the screen now and then. Shooting it
// grants its power-up.
type MysteryShip struct {
	Type PowerUpType

	cfg      config.Config
	listener PowerUpListener
	handler  *CollisionHandler

	pos    core.Vec2
	start  core.Vec2
	end    core.Vec2
	flying bool
	wait   float64
}

// NewMysteryShip creates a ship that starts its first pass immediately.
func NewMysteryShip(cfg config.Config, t PowerUpType, listener PowerUpListener) *MysteryShip {
	y := cfg.Mystery.Y
	s := &MysteryShip{
		Type:     t,
		cfg:      cfg,
		listener: listener,
		handler:  NewCollisionHandler(KindMysteryShip),
		start:    core.Vec2{X: -cfg.World.XBound - 1, Y: y},
		end:      core.Vec2{X: cfg.World.XBound + 1, Y: y},
	}
	s.handler.OnTriggerEntered(s.triggerEntered)
	s.run()
	return s
}

// Update flies the ship or counts down to its next pass.
func (s *MysteryShip) Update(dt float64) {
	if !s.flying {
		s.wait -= dt
		if s.wait <= 0 {
			s.run()
		}
		return
	}

	s.pos.X += s.cfg.Mystery.Speed * dt
	if s.pos.X >= s.end.X {
		s.stop()
	}
}

func (s *MysteryShip) run() {
	s.pos = s.start
	s.flying = true
	s.wait = 0
}

func (s *MysteryShip) stop() {
	s.pos = s.start
	s.flying = false
	s.wait = s.cfg.Mystery.AppearInterval
}

// The laser survives the hit.
func (s *MysteryShip) triggerEntered(other Collider) {
	if other.Kind != KindLaser || !s.flying {
		return
	}
	s.stop()
	if s.listener != nil {
		s.listener.OnPowerUp(s.Type)
	}
}

// Flying reports whether the ship is on a pass.
func (s *MysteryShip) Flying() bool { return s.flying }

// Position returns the current position.
func (s *MysteryShip) Position() core.Vec2 { return s.pos }

// Box returns the world bounds of the ship.
func (s *MysteryShip) Box() core.Box {
	return core.NewBox(s.pos, mysteryHalfW, mysteryHalfH)
}
