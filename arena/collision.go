package arena

// CollisionSystem eliminates swarm entities overlapped by a probe (a projectile
// or the player). Eliminations are recorded during the tick and applied by Sweep,
// so the swarm slice is never mutated while it is being iterated.
type CollisionSystem struct {
	grid        *Grid
	swarmRadius float64
	eliminated  map[EntityID]struct{}
	scratch     []*Entity
}

// NewCollisionSystem creates a collision system over the given grid
func NewCollisionSystem(grid *Grid, swarmRadius float64) *CollisionSystem {
	return &CollisionSystem{
		grid:        grid,
		swarmRadius: swarmRadius,
		eliminated:  make(map[EntityID]struct{}),
		scratch:     make([]*Entity, 0, 64),
	}
}

// Index files the swarm into the grid for this tick's queries
func (c *CollisionSystem) Index(swarm []*Entity) {
	c.grid.Rebuild(swarm)
	clear(c.eliminated)
}

// Consume marks every live swarm entity colliding with probe as eliminated
// and returns how many were newly marked
func (c *CollisionSystem) Consume(probe *Entity) int {
	c.scratch = c.grid.Near(c.scratch[:0], probe.Pos, probe.Radius+c.swarmRadius)
	n := 0
	for _, e := range c.scratch {
		if _, gone := c.eliminated[e.ID]; gone {
			continue
		}
		if probe.IsCollidingWith(e) {
			c.eliminated[e.ID] = struct{}{}
			n++
		}
	}
	return n
}

// Eliminated reports whether the entity was marked this tick
func (c *CollisionSystem) Eliminated(id EntityID) bool {
	_, gone := c.eliminated[id]
	return gone
}

// Sweep drops the marked entities from swarm in place, preserving order
func (c *CollisionSystem) Sweep(swarm []*Entity) []*Entity {
	if len(c.eliminated) == 0 {
		return swarm
	}
	kept := swarm[:0]
	for _, e := range swarm {
		if _, gone := c.eliminated[e.ID]; !gone {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(swarm); i++ {
		swarm[i] = nil
	}
	return kept
}
