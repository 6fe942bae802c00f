package bot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"swarmarena/arena"
)

// Behavior selects how the autopilot picks a target point
type Behavior int

const (
	// BehaviorHunt chases the swarm entity it can intercept soonest
	BehaviorHunt Behavior = iota
	// BehaviorOrbit circles the arena centre and shoots whatever crosses its heading
	BehaviorOrbit
)

func (b Behavior) String() string {
	switch b {
	case BehaviorHunt:
		return "hunt"
	case BehaviorOrbit:
		return "orbit"
	default:
		return "unknown"
	}
}

// ParseBehavior maps a behaviour name to its value
func ParseBehavior(name string) (Behavior, bool) {
	switch name {
	case "hunt", "":
		return BehaviorHunt, true
	case "orbit":
		return BehaviorOrbit, true
	}
	return BehaviorHunt, false
}

const (
	// deadZone keeps the pilot from jittering on an axis it is already aligned with
	deadZone = 4.0

	// aimCone is the largest angle between heading and target that still fires
	aimCone = 0.12 // radians (~7 degrees)

	orbitRadiusFactor = 0.55
	orbitRate         = 0.01 // radians per tick
)

// Autopilot turns the latest tick result into the next input.
// It keeps a little state across ticks and is not safe for concurrent use.
type Autopilot struct {
	Behavior Behavior

	center          mgl64.Vec2
	radius          float64
	projectileSpeed float64
	patternTime     float64

	// Target is the point steered at during the last call, for debug overlays
	Target    mgl64.Vec2
	HasTarget bool
}

// New creates an autopilot for sessions running with cfg
func New(cfg arena.Config, behavior Behavior) *Autopilot {
	return &Autopilot{
		Behavior:        behavior,
		center:          cfg.Center,
		radius:          cfg.Radius,
		projectileSpeed: cfg.ProjectileSpeed,
	}
}

// Next decides the input for the following tick
func (a *Autopilot) Next(res arena.TickResult) arena.Input {
	player := res.Player
	a.HasTarget = false

	var steer mgl64.Vec2
	switch a.Behavior {
	case BehaviorOrbit:
		a.patternTime += orbitRate
		steer = a.center.Add(mgl64.Vec2{
			math.Cos(a.patternTime) * a.radius * orbitRadiusFactor,
			math.Sin(a.patternTime) * a.radius * orbitRadiusFactor,
		})
	default:
		target, ok := Nearest(player.Pos, res.Swarm)
		if !ok {
			return arena.Input{}
		}
		steer = PredictiveAim(player.Pos, target.Pos, target.Vel, a.projectileSpeed)
		a.Target, a.HasTarget = steer, true
	}

	d := steer.Sub(player.Pos)
	in := arena.Input{
		Move: arena.Axis(d.X() < -deadZone, d.X() > deadZone, d.Y() < -deadZone, d.Y() > deadZone),
	}
	if res.ProjectilesAvailable > 0 {
		in.Fire = a.lined(player, res.Swarm)
	}
	return in
}

// lined reports whether some swarm entity sits within the aim cone of the
// player's current heading
func (a *Autopilot) lined(player arena.Entity, swarm []arena.Entity) bool {
	if player.Vel.Len() == 0 {
		return false
	}
	heading := player.Vel.Normalize()
	for i := range swarm {
		e := &swarm[i]
		aim := PredictiveAim(player.Pos, e.Pos, e.Vel, a.projectileSpeed).Sub(player.Pos)
		if aim.Len() < 1 {
			continue
		}
		if angleBetween(heading, aim.Normalize()) < aimCone {
			return true
		}
	}
	return false
}

// Nearest returns the swarm entity closest to p
func Nearest(p mgl64.Vec2, swarm []arena.Entity) (arena.Entity, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range swarm {
		if d := swarm[i].Pos.Sub(p).Len(); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return arena.Entity{}, false
	}
	return swarm[best], true
}

// PredictiveAim estimates where a target moving at constant velocity will be
// when a projectile fired now from shooter reaches it
func PredictiveAim(shooter, target, targetVel mgl64.Vec2, projectileSpeed float64) mgl64.Vec2 {
	if targetVel.Len() < 0.1 || projectileSpeed <= 0 {
		return target
	}
	distance := target.Sub(shooter).Len()
	if distance < 1 {
		return target
	}

	// Refine the interception time a few times
	t := distance / projectileSpeed
	for i := 0; i < 5; i++ {
		predicted := target.Add(targetVel.Mul(t))
		newT := predicted.Sub(shooter).Len() / projectileSpeed
		if math.Abs(newT-t) < 0.001 {
			break
		}
		t = newT
	}
	return target.Add(targetVel.Mul(t))
}

// angleBetween returns the unsigned angle between two unit vectors
func angleBetween(a, b mgl64.Vec2) float64 {
	return math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
}
