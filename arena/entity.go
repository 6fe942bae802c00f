package arena

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityID identifies an entity within one session.
// IDs are never reused, so removals never invalidate references held elsewhere.
type EntityID uint64

// InvalidEntityID marks an unset reference
const InvalidEntityID EntityID = 0

// Kind selects the wall behaviour of an entity
type Kind int

const (
	KindSwarm Kind = iota
	KindProjectile
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindSwarm:
		return "swarm"
	case KindProjectile:
		return "projectile"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Rand is the random source used for spawn rolls and spawn placement.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Wall is the circular arena boundary
type Wall struct {
	Center mgl64.Vec2
	Radius float64
}

// SpawnRule decides whether a reflecting bounce spawns a new entity
type SpawnRule struct {
	Cooldown int
	Chance   float64
	Rand     Rand
}

// Entity is a circular body in the arena
type Entity struct {
	ID   EntityID
	Kind Kind

	// Position in arena coordinates
	Pos mgl64.Vec2

	// Velocity in pixels per frame
	Vel mgl64.Vec2

	// Collision radius in pixels
	Radius float64

	// Display colour, ignored by the physics
	Color color.RGBA

	// Frames remaining before this entity may spawn again
	SpawnCooldown int
}

// Move advances the entity by one frame of velocity
func (e *Entity) Move() {
	e.Pos = e.Pos.Add(e.Vel)
}

// Touches reports whether the entity reaches or crosses the wall
func (e *Entity) Touches(w Wall) bool {
	return e.Pos.Sub(w.Center).Len()+e.Radius >= w.Radius
}

// BounceOffWall applies the wall interaction of the entity's kind.
// Projectiles return true on contact to signal expiry. Swarm and player entities
// reflect, are clamped inside the wall and return true when the contact spawns.
func (e *Entity) BounceOffWall(w Wall, rule SpawnRule) bool {
	switch e.Kind {
	case KindProjectile:
		return e.Touches(w)
	case KindSwarm, KindPlayer:
		return e.reflect(w, rule)
	default:
		panic("arena: unknown entity kind " + e.Kind.String())
	}
}

func (e *Entity) reflect(w Wall, rule SpawnRule) bool {
	offset := e.Pos.Sub(w.Center)
	dist := offset.Len()
	if dist+e.Radius < w.Radius || dist == 0 {
		return false
	}

	n := offset.Mul(1 / dist)
	e.Vel = Reflect(e.Vel, n)
	e.Pos = w.Center.Add(n.Mul(w.Radius - e.Radius))

	if e.SpawnCooldown != 0 {
		return false
	}
	e.SpawnCooldown = rule.Cooldown
	if rule.Rand == nil {
		return false
	}
	return rule.Rand.Float64() < rule.Chance
}

// ResetSpawnCooldown counts the spawn cooldown down by one frame
func (e *Entity) ResetSpawnCooldown() {
	if e.SpawnCooldown > 0 {
		e.SpawnCooldown--
	}
}

// IsCollidingWith reports a strict overlap; touching circles do not collide
func (e *Entity) IsCollidingWith(other *Entity) bool {
	return e.Pos.Sub(other.Pos).Len() < e.Radius+other.Radius
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n
func Reflect(v, n mgl64.Vec2) mgl64.Vec2 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// polar returns a vector of the given length pointing at angle radians
func polar(angle, length float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// uniform draws from [lo, hi)
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
