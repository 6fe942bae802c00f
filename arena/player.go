package arena

import "github.com/go-gl/mathgl/mgl64"

// NewPlayer creates the player entity at rest
func NewPlayer(id EntityID, pos mgl64.Vec2, radius float64) *Entity {
	return &Entity{
		ID:     id,
		Kind:   KindPlayer,
		Pos:    pos,
		Radius: radius,
		Color:  PlayerColor,
	}
}

// ApplyInput accelerates the entity along each active input axis.
// Diagonal input is not normalised.
func (e *Entity) ApplyInput(in mgl64.Vec2, step float64) {
	e.Vel = e.Vel.Add(in.Mul(step))
}

// ApplyFriction scales the velocity down by the friction factor
func (e *Entity) ApplyFriction(friction float64) {
	e.Vel = e.Vel.Mul(friction)
}

// Input is what the driver supplies for one tick
type Input struct {
	// Move holds one of -1, 0, 1 per axis; y grows downwards
	Move mgl64.Vec2

	// Fire requests a projectile this tick
	Fire bool
}

// Axis builds a movement vector from held directions.
// Opposite directions cancel out.
func Axis(left, right, up, down bool) mgl64.Vec2 {
	var v mgl64.Vec2
	if left {
		v[0]--
	}
	if right {
		v[0]++
	}
	if up {
		v[1]--
	}
	if down {
		v[1]++
	}
	return v
}
