package invaders

import "github.com/vovakirdan/tui-invaders/internal/core"

// Kind identifies what an entity is for collision filtering.
type Kind int

const (
	KindNone Kind = iota
	KindLaser
	KindMissile
	KindInvader
	KindPlayer
	KindMysteryShip
	KindBrick
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLaser:
		return "laser"
	case KindMissile:
		return "missile"
	case KindInvader:
		return "invader"
	case KindPlayer:
		return "player"
	case KindMysteryShip:
		return "mystery-ship"
	case KindBrick:
		return "brick"
	default:
		return "none"
	}
}

// Projectile is a collider owner that can be destroyed by whatever it hits.
type Projectile interface {
	Kill()
	Alive() bool
}

// Collider is what the physics pass hands to a trigger callback: the kind
// and bounds of the other party, plus the projectile behind it if any.
// From is where a projectile started this tick.
type Collider struct {
	Kind       Kind
	Box        core.Box
	From       core.Vec2
	Projectile Projectile
}

// CollisionHandler turns physics-pass overlaps into a typed callback for the
// entity that owns it. It holds a single callback slot.
type CollisionHandler struct {
	kind           Kind
	triggerEntered func(other Collider)
}

// NewCollisionHandler creates a handler for an entity of the given kind.
func NewCollisionHandler(kind Kind) *CollisionHandler {
	return &CollisionHandler{kind: kind}
}

// Kind returns the kind of the owning entity.
func (h *CollisionHandler) Kind() Kind {
	return h.kind
}

// OnTriggerEntered installs the trigger callback, replacing any previous one.
func (h *CollisionHandler) OnTriggerEntered(fn func(other Collider)) {
	h.triggerEntered = fn
}

// TriggerEnter delivers an overlap with other. A handler without a callback
// ignores the event.
func (h *CollisionHandler) TriggerEnter(other Collider) {
	if h.triggerEntered != nil {
		h.triggerEntered(other)
	}
}
