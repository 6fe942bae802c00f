package arena

// NewProjectile launches a projectile from the shooter along its heading.
// The projectile reuses the shooter's radius. It returns false when the
// shooter is at rest and has no heading.
func NewProjectile(id EntityID, shooter *Entity, speed float64) (*Entity, bool) {
	if shooter.Vel.Len() == 0 {
		return nil, false
	}
	return &Entity{
		ID:     id,
		Kind:   KindProjectile,
		Pos:    shooter.Pos,
		Vel:    shooter.Vel.Normalize().Mul(speed),
		Radius: shooter.Radius,
		Color:  ProjectileColor,
	}, true
}

// magazine tracks available projectiles and the reload countdown
type magazine struct {
	capacity  int
	available int
	cooldown  int
	reload    int
}

func newMagazine(capacity, reload int) magazine {
	return magazine{capacity: capacity, available: capacity, reload: reload}
}

// take consumes one projectile if any is left
func (m *magazine) take() bool {
	if m.available <= 0 {
		return false
	}
	m.available--
	return true
}

// advance counts depleted frames and refills after the reload time.
// It returns true on the frame the magazine refills.
func (m *magazine) advance() bool {
	if m.available != 0 {
		return false
	}
	m.cooldown++
	if m.cooldown < m.reload {
		return false
	}
	m.available = m.capacity
	m.cooldown = 0
	return true
}
