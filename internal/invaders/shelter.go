package invaders

import (
	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
)

// ShelterBrick is one destructible block of a shelter.
type ShelterBrick struct {
	Shelter int

	pos     core.Vec2
	half    float64
	active  bool
	handler *CollisionHandler
}

func newShelterBrick(shelter int, pos core.Vec2, size float64) *ShelterBrick {
	b := &ShelterBrick{
		Shelter: shelter,
		pos:     pos,
		half:    size / 2,
		active:  true,
		handler: NewCollisionHandler(KindBrick),
	}
	b.handler.OnTriggerEntered(b.triggerEntered)
	return b
}

// Any projectile is absorbed and takes the brick with it.
func (b *ShelterBrick) triggerEntered(other Collider) {
	if !b.active {
		return
	}
	if other.Projectile != nil {
		other.Projectile.Kill()
	}
	b.active = false
}

// Active reports whether the brick is still standing.
func (b *ShelterBrick) Active() bool { return b.active }

// Position returns the world position of the brick.
func (b *ShelterBrick) Position() core.Vec2 { return b.pos }

// Box returns the world bounds of the brick.
func (b *ShelterBrick) Box() core.Box {
	return core.NewBox(b.pos, b.half, b.half)
}

// SheltersGroup holds every brick of every shelter so they can be switched
// off together once the grid gets low.
type SheltersGroup struct {
	bricks []*ShelterBrick
	active bool
}

// NewSheltersGroup builds the shelters from the configured pattern, spread
// evenly across the world. '#' in the pattern is a brick.
func NewSheltersGroup(cfg config.Config) *SheltersGroup {
	sc := cfg.Shelters
	g := &SheltersGroup{active: true}
	if sc.Count <= 0 || len(sc.Pattern) == 0 {
		return g
	}

	cols := 0
	for _, line := range sc.Pattern {
		if n := len([]rune(line)); n > cols {
			cols = n
		}
	}

	span := 2 * cfg.World.XBound / float64(sc.Count)
	width := sc.BrickSize * float64(cols-1)
	for s := 0; s < sc.Count; s++ {
		centerX := -cfg.World.XBound + span*(float64(s)+0.5)
		left := centerX - width/2
		for row, line := range sc.Pattern {
			for col, r := range []rune(line) {
				if r != '#' {
					continue
				}
				pos := core.Vec2{
					X: left + sc.BrickSize*float64(col),
					Y: sc.Y - sc.BrickSize*float64(row),
				}
				g.bricks = append(g.bricks, newShelterBrick(s, pos, sc.BrickSize))
			}
		}
	}
	return g
}

// SetActive switches the whole group on or off.
func (g *SheltersGroup) SetActive(active bool) { g.active = active }

// Active reports whether the shelters are in play.
func (g *SheltersGroup) Active() bool { return g.active }

// Bricks returns every brick, standing or not.
func (g *SheltersGroup) Bricks() []*ShelterBrick { return g.bricks }

// Standing counts the bricks still up.
func (g *SheltersGroup) Standing() int {
	n := 0
	for _, b := range g.bricks {
		if b.active {
			n++
		}
	}
	return n
}
