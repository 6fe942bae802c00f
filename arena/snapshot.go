package arena

// Events counts what happened during one tick
type Events struct {
	// Bounces is the number of swarm wall contacts
	Bounces int

	// Spawned is the number of swarm entities born on a bounce
	Spawned int

	// Fired is set when a projectile was launched
	Fired bool

	// Expired is the number of projectiles that reached the wall
	Expired int

	// Consumed is the number of swarm entities eliminated by projectiles
	Consumed int

	// Collided is the number of swarm entities eliminated by the player
	Collided int

	// Reloaded is set on the frame the magazine refills
	Reloaded bool
}

// TickResult is a copy of the session state after a tick. Entities are copied
// by value; mutating them does not affect the simulation.
type TickResult struct {
	SessionID string
	Tick      uint64
	State     State
	Outcome   Outcome

	Player      Entity
	Swarm       []Entity
	Projectiles []Entity

	ProjectilesAvailable int
	ProjectileCapacity   int
	ReloadCooldown       int
	ReloadTime           int
	MaxSwarmSize         int

	Events Events
}

// ReloadRemaining returns the frames left until the magazine refills,
// or 0 while projectiles are available
func (r TickResult) ReloadRemaining() int {
	if r.ProjectilesAvailable > 0 {
		return 0
	}
	return r.ReloadTime - r.ReloadCooldown
}

// Finished reports whether the session has a winner
func (r TickResult) Finished() bool {
	return r.Outcome != OutcomeNone
}

func (s *Simulation) snapshot() TickResult {
	res := TickResult{
		SessionID:            s.sessionID,
		Tick:                 s.tick,
		State:                s.state,
		Swarm:                make([]Entity, len(s.swarm)),
		Projectiles:          make([]Entity, len(s.projectiles)),
		ProjectilesAvailable: s.mag.available,
		ProjectileCapacity:   s.mag.capacity,
		ReloadCooldown:       s.mag.cooldown,
		ReloadTime:           s.mag.reload,
		MaxSwarmSize:         s.maxSwarm,
	}
	if s.player != nil {
		res.Player = *s.player
	}
	for i, e := range s.swarm {
		res.Swarm[i] = *e
	}
	for i, p := range s.projectiles {
		res.Projectiles[i] = *p
	}
	return res
}
