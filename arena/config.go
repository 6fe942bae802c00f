package arena

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Config holds the physics and rule constants of a session
type Config struct {
	// Center of the circular arena in world coordinates
	Center mgl64.Vec2

	// Radius of the arena boundary
	Radius float64

	// PlayerRadius is the collision radius of the player (and of its projectiles)
	PlayerRadius float64

	// SwarmRadius is the collision radius of every swarm entity
	SwarmRadius float64

	// InitialSwarm is the number of swarm entities placed at session start
	InitialSwarm int

	// Initial swarm placement: offset from the centre and launch speed ranges
	InitialOffsetMin, InitialOffsetMax float64
	InitialSpeedMin, InitialSpeedMax   float64

	// Speed range of entities spawned on a wall bounce
	SpawnSpeedMin, SpawnSpeedMax float64

	// SpawnCooldown is the number of frames an entity waits between spawns
	SpawnCooldown int

	// SpawnChance is the probability that an eligible bounce spawns a new entity
	SpawnChance float64

	// ProjectileSpeed is the launch speed of a fired projectile
	ProjectileSpeed float64

	// ProjectileCapacity is the magazine size
	ProjectileCapacity int

	// ReloadTime is the number of depleted frames before the magazine refills
	ReloadTime int

	// AccelStep is the velocity added per active input direction per frame
	AccelStep float64

	// Friction is the per-frame velocity multiplier of the player
	Friction float64

	// Bounds for the configured swarm win threshold
	MinSwarmSize, MaxSwarmSize int
}

// DefaultConfig returns the classic 900x900 arena configuration
func DefaultConfig() Config {
	return Config{
		Center:             mgl64.Vec2{450, 450},
		Radius:             350,
		PlayerRadius:       25,
		SwarmRadius:        10,
		InitialSwarm:       5,
		InitialOffsetMin:   30,
		InitialOffsetMax:   60,
		InitialSpeedMin:    4,
		InitialSpeedMax:    6,
		SpawnSpeedMin:      2,
		SpawnSpeedMax:      3,
		SpawnCooldown:      90,
		SpawnChance:        0.65,
		ProjectileSpeed:    6,
		ProjectileCapacity: 4,
		ReloadTime:         120, // 2 seconds at 60 TPS
		AccelStep:          0.4,
		Friction:           0.95,
		MinSwarmSize:       100,
		MaxSwarmSize:       1000,
	}
}

// Validate reports the first inconsistent setting
func (c Config) Validate() error {
	switch {
	case c.Radius <= 0:
		return errors.Wrapf(ErrInvalidConfig, "arena radius %v", c.Radius)
	case c.PlayerRadius <= 0 || c.PlayerRadius >= c.Radius:
		return errors.Wrapf(ErrInvalidConfig, "player radius %v must be in (0, %v)", c.PlayerRadius, c.Radius)
	case c.SwarmRadius <= 0 || c.SwarmRadius >= c.Radius:
		return errors.Wrapf(ErrInvalidConfig, "swarm radius %v must be in (0, %v)", c.SwarmRadius, c.Radius)
	case c.InitialSwarm < 0:
		return errors.Wrapf(ErrInvalidConfig, "initial swarm %d", c.InitialSwarm)
	case c.InitialOffsetMin < 0 || c.InitialOffsetMax < c.InitialOffsetMin:
		return errors.Wrapf(ErrInvalidConfig, "initial offset range [%v, %v]", c.InitialOffsetMin, c.InitialOffsetMax)
	case c.InitialOffsetMax+c.SwarmRadius > c.Radius:
		return errors.Wrapf(ErrInvalidConfig, "initial offset %v places swarm outside the arena", c.InitialOffsetMax)
	case c.InitialSpeedMin < 0 || c.InitialSpeedMax < c.InitialSpeedMin:
		return errors.Wrapf(ErrInvalidConfig, "initial speed range [%v, %v]", c.InitialSpeedMin, c.InitialSpeedMax)
	case c.SpawnSpeedMin < 0 || c.SpawnSpeedMax < c.SpawnSpeedMin:
		return errors.Wrapf(ErrInvalidConfig, "spawn speed range [%v, %v]", c.SpawnSpeedMin, c.SpawnSpeedMax)
	case c.SpawnCooldown < 0:
		return errors.Wrapf(ErrInvalidConfig, "spawn cooldown %d", c.SpawnCooldown)
	case c.SpawnChance < 0 || c.SpawnChance > 1:
		return errors.Wrapf(ErrInvalidConfig, "spawn chance %v", c.SpawnChance)
	case c.ProjectileSpeed < 0:
		return errors.Wrapf(ErrInvalidConfig, "projectile speed %v", c.ProjectileSpeed)
	case c.ProjectileCapacity < 1:
		return errors.Wrapf(ErrInvalidConfig, "projectile capacity %d", c.ProjectileCapacity)
	case c.ReloadTime < 1:
		return errors.Wrapf(ErrInvalidConfig, "reload time %d", c.ReloadTime)
	case c.Friction < 0 || c.Friction > 1:
		return errors.Wrapf(ErrInvalidConfig, "friction %v", c.Friction)
	case c.MinSwarmSize < 1 || c.MaxSwarmSize < c.MinSwarmSize:
		return errors.Wrapf(ErrInvalidConfig, "swarm size bounds [%d, %d]", c.MinSwarmSize, c.MaxSwarmSize)
	}
	return nil
}

// Bounds returns the arena as a wall for bounce checks
func (c Config) Bounds() Wall {
	return Wall{Center: c.Center, Radius: c.Radius}
}
