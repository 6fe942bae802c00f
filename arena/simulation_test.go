package arena

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunning(t *testing.T, cfg Config, maxSwarm int, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(cfg, append([]Option{WithSeed(42)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, s.ConfigureSession(maxSwarm))
	return s
}

func assertContained(t *testing.T, cfg Config, res TickResult) {
	t.Helper()
	check := func(e Entity) {
		d := e.Pos.Sub(cfg.Center).Len()
		assert.LessOrEqual(t, d+e.Radius, cfg.Radius+1e-6, "%s %d escaped at tick %d", e.Kind, e.ID, res.Tick)
	}
	check(res.Player)
	for _, e := range res.Swarm {
		check(e)
	}
	for _, p := range res.Projectiles {
		check(p)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SwarmRadius = 0
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.SpawnChance = 1.5
	_, err = New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestConfigureSession(t *testing.T) {
	for _, size := range []int{99, 1001, 0, -50} {
		s, err := New(DefaultConfig())
		require.NoError(t, err)
		err = s.ConfigureSession(size)
		assert.True(t, errors.Is(err, ErrInvalidSwarmSize), "size %d", size)
		assert.Equal(t, StateSetup, s.State())
	}

	for _, size := range []int{100, 550, 1000} {
		s, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NoError(t, s.ConfigureSession(size))
		assert.Equal(t, StateRunning, s.State())
		assert.True(t, errors.Is(s.ConfigureSession(size), ErrAlreadyConfigured))
	}
}

func TestTickRequiresRunningSession(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = s.Tick(Input{})
	assert.True(t, errors.Is(err, ErrNotRunning))
	assert.True(t, errors.Is(s.Terminate(), ErrNotFinished))
}

func TestInitialPlacement(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 200)
	res := s.Snapshot()

	assert.Equal(t, cfg.Center, res.Player.Pos)
	assert.Equal(t, mgl64.Vec2{}, res.Player.Vel)
	assert.Equal(t, cfg.PlayerRadius, res.Player.Radius)
	assert.Equal(t, cfg.ProjectileCapacity, res.ProjectilesAvailable)
	assert.Empty(t, res.Projectiles)
	require.Len(t, res.Swarm, cfg.InitialSwarm)

	ids := map[EntityID]bool{res.Player.ID: true}
	for _, e := range res.Swarm {
		offset := e.Pos.Sub(cfg.Center)
		assert.GreaterOrEqual(t, offset.Len(), cfg.InitialOffsetMin-1e-9)
		assert.LessOrEqual(t, offset.Len(), cfg.InitialOffsetMax+1e-9)
		assert.GreaterOrEqual(t, e.Vel.Len(), cfg.InitialSpeedMin-1e-9)
		assert.LessOrEqual(t, e.Vel.Len(), cfg.InitialSpeedMax+1e-9)
		assert.InDelta(t, 1, offset.Normalize().Dot(e.Vel.Normalize()), 1e-9, "launched outward")
		assert.Contains(t, SwarmPalette, e.Color)
		assert.False(t, ids[e.ID], "duplicate id %d", e.ID)
		ids[e.ID] = true
	}
}

// A stationary player at the centre meets every radially launched ball.
func TestPlayerWinsWithoutSpawning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnChance = 0
	s := newRunning(t, cfg, 100)

	var res TickResult
	var err error
	for i := 0; i < 5000 && !res.Finished(); i++ {
		res, err = s.Tick(Input{})
		require.NoError(t, err)
		assert.Zero(t, res.Events.Spawned)
		assertContained(t, cfg, res)
	}

	require.Equal(t, OutcomePlayerWon, res.Outcome)
	assert.Empty(t, res.Swarm)
	assert.Equal(t, StatePlayerWon, s.State())

	_, err = s.Tick(Input{})
	assert.True(t, errors.Is(err, ErrNotRunning))
	require.NoError(t, s.Terminate())
	assert.Equal(t, StateTerminated, s.State())
}

// With certain spawning and no eliminations every eligible bounce adds one entity.
func TestEveryEligibleBounceSpawns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnChance = 1
	s := newRunning(t, cfg, 1000)
	s.noEliminations = true

	prev := s.Snapshot()
	total := 0
	var res TickResult
	var err error
	for i := 0; i < 20000 && !res.Finished(); i++ {
		res, err = s.Tick(Input{})
		require.NoError(t, err)

		total += res.Events.Spawned
		require.Len(t, res.Swarm, cfg.InitialSwarm+total)
		assert.GreaterOrEqual(t, res.Events.Bounces, res.Events.Spawned)

		cooldowns := make(map[EntityID]int, len(res.Swarm))
		for _, e := range res.Swarm {
			cooldowns[e.ID] = e.SpawnCooldown
		}
		eligible := 0
		for _, e := range prev.Swarm {
			if e.SpawnCooldown == 0 && cooldowns[e.ID] == cfg.SpawnCooldown-1 {
				eligible++
			}
		}
		require.Equal(t, eligible, res.Events.Spawned, "tick %d", res.Tick)
		assertContained(t, cfg, res)
		prev = res
	}

	assert.Equal(t, OutcomeSwarmWon, res.Outcome)
	assert.GreaterOrEqual(t, len(res.Swarm), 1000)
	assert.Equal(t, StateSwarmWon, s.State())
}

func TestSpawnsJoinAfterThePass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnChance = 1
	s := newRunning(t, cfg, 100)
	s.noEliminations = true

	parent := &Entity{
		ID:     s.nextID(),
		Kind:   KindSwarm,
		Pos:    cfg.Center.Add(mgl64.Vec2{cfg.Radius - cfg.SwarmRadius - 1, 0}),
		Vel:    mgl64.Vec2{3, 0},
		Radius: cfg.SwarmRadius,
	}
	s.swarm = []*Entity{parent}

	res, err := s.Tick(Input{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Events.Spawned)
	require.Len(t, res.Swarm, 2)

	born := res.Swarm[1]
	assert.Equal(t, res.Swarm[0].Pos, born.Pos, "born at the clamped bounce point, not moved")
	assert.Equal(t, 0, born.SpawnCooldown)
	assert.Equal(t, cfg.SpawnCooldown-1, res.Swarm[0].SpawnCooldown)
	assert.GreaterOrEqual(t, born.Vel.Len(), cfg.SpawnSpeedMin-1e-9)
	assert.LessOrEqual(t, born.Vel.Len(), cfg.SpawnSpeedMax+1e-9)
}

func TestFireWithoutHeadingIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)
	s.noEliminations = true

	res, err := s.Tick(Input{Fire: true})
	require.NoError(t, err)
	assert.False(t, res.Events.Fired)
	assert.Empty(t, res.Projectiles)
	assert.Equal(t, cfg.ProjectileCapacity, res.ProjectilesAvailable)
}

func TestFireWithoutAmmoIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)
	s.noEliminations = true
	right := Input{Move: Axis(false, true, false, false), Fire: true}

	var res TickResult
	var err error
	for i := 0; i < cfg.ProjectileCapacity; i++ {
		res, err = s.Tick(right)
		require.NoError(t, err)
		require.True(t, res.Events.Fired)
	}
	require.Equal(t, 0, res.ProjectilesAvailable)
	inFlight := len(res.Projectiles)
	cooldown := res.ReloadCooldown

	res, err = s.Tick(right)
	require.NoError(t, err)
	assert.False(t, res.Events.Fired)
	assert.Equal(t, 0, res.ProjectilesAvailable)
	assert.Equal(t, inFlight-res.Events.Expired, len(res.Projectiles))
	assert.Equal(t, cooldown+1, res.ReloadCooldown, "firing empty does not reset the reload")
}

func TestProjectileLaunch(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)
	s.noEliminations = true

	res, err := s.Tick(Input{Move: Axis(false, false, true, false), Fire: true})
	require.NoError(t, err)
	require.Len(t, res.Projectiles, 1)

	p := res.Projectiles[0]
	assert.Equal(t, cfg.PlayerRadius, p.Radius)
	assert.InDelta(t, cfg.ProjectileSpeed, p.Vel.Len(), 1e-9)
	assert.InDelta(t, -cfg.ProjectileSpeed, p.Vel.Y(), 1e-9)
	// Launched from the player's position this tick, then moved once
	assert.InDelta(t, res.Player.Pos.Y()-cfg.ProjectileSpeed, p.Pos.Y(), 1e-9)
	assert.Equal(t, cfg.ProjectileCapacity-1, res.ProjectilesAvailable)
}

func TestReloadAfterDepletedFrames(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)
	s.noEliminations = true
	right := Input{Move: Axis(false, true, false, false), Fire: true}

	available := cfg.ProjectileCapacity
	depleted := 0
	reloads := 0
	for i := 0; i < 3*cfg.ReloadTime; i++ {
		res, err := s.Tick(right)
		require.NoError(t, err)

		if res.Events.Reloaded {
			reloads++
			assert.Equal(t, cfg.ReloadTime, depleted+1, "refill on the ReloadTime-th depleted frame")
			assert.Equal(t, cfg.ProjectileCapacity, res.ProjectilesAvailable)
			assert.Equal(t, 0, res.ReloadCooldown)
			depleted = 0
		} else {
			assert.LessOrEqual(t, res.ProjectilesAvailable, available, "ammo only grows by reloading")
		}
		if res.ProjectilesAvailable == 0 {
			depleted++
			assert.Equal(t, depleted, res.ReloadCooldown)
			assert.Equal(t, cfg.ReloadTime-depleted, res.ReloadRemaining())
		} else {
			assert.Equal(t, 0, res.ReloadCooldown)
			assert.Equal(t, 0, res.ReloadRemaining())
		}
		available = res.ProjectilesAvailable
	}
	assert.GreaterOrEqual(t, reloads, 2)
}

func TestProjectileConsumesOnExpiryTick(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)

	victim := &Entity{ID: s.nextID(), Kind: KindSwarm, Pos: cfg.Center.Add(mgl64.Vec2{310, 0}), Radius: cfg.SwarmRadius}
	bystander := &Entity{ID: s.nextID(), Kind: KindSwarm, Pos: cfg.Center.Add(mgl64.Vec2{-200, 0}), Radius: cfg.SwarmRadius}
	s.swarm = []*Entity{victim, bystander}
	s.projectiles = []*Entity{{
		ID:     s.nextID(),
		Kind:   KindProjectile,
		Pos:    cfg.Center.Add(mgl64.Vec2{320, 0}),
		Vel:    mgl64.Vec2{cfg.ProjectileSpeed, 0},
		Radius: cfg.PlayerRadius,
	}}

	res, err := s.Tick(Input{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events.Expired)
	assert.Equal(t, 1, res.Events.Consumed)
	assert.Empty(t, res.Projectiles)
	require.Len(t, res.Swarm, 1)
	assert.Equal(t, bystander.ID, res.Swarm[0].ID)
	assert.Equal(t, OutcomeNone, res.Outcome)
}

func TestPlayerCollisionEliminates(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)

	near := &Entity{ID: s.nextID(), Kind: KindSwarm, Pos: cfg.Center.Add(mgl64.Vec2{30, 0}), Radius: cfg.SwarmRadius}
	edge := &Entity{ID: s.nextID(), Kind: KindSwarm, Pos: cfg.Center.Add(mgl64.Vec2{0, 35}), Radius: cfg.SwarmRadius}
	s.swarm = []*Entity{near, edge}

	res, err := s.Tick(Input{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events.Collided)
	require.Len(t, res.Swarm, 1)
	assert.Equal(t, edge.ID, res.Swarm[0].ID, "touching at exactly r1+r2 survives")
}

func TestSwarmWinsAtThreshold(t *testing.T) {
	cfg := DefaultConfig()
	s := newRunning(t, cfg, 100)

	s.swarm = s.swarm[:0]
	for i := 0; i < 100; i++ {
		s.swarm = append(s.swarm, &Entity{
			ID:     s.nextID(),
			Kind:   KindSwarm,
			Pos:    cfg.Center.Add(mgl64.Vec2{-200, 0}),
			Radius: cfg.SwarmRadius,
		})
	}

	res, err := s.Tick(Input{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSwarmWon, res.Outcome)
	assert.Equal(t, OutcomeSwarmWon, s.Snapshot().Outcome)
	require.NoError(t, s.Terminate())
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	cfg := DefaultConfig()
	a := newRunning(t, cfg, 300, WithSessionID("replay"))
	b := newRunning(t, cfg, 300, WithSessionID("replay"))

	inputs := []Input{
		{Move: Axis(true, false, false, false)},
		{Move: Axis(true, false, true, false), Fire: true},
		{},
		{Move: Axis(false, true, false, true), Fire: true},
	}
	for i := 0; i < 600; i++ {
		in := inputs[i%len(inputs)]
		ra, errA := a.Tick(in)
		rb, errB := b.Tick(in)
		require.Equal(t, errA, errB)
		if errA != nil {
			break
		}
		require.Equal(t, ra, rb, "tick %d", i)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newRunning(t, DefaultConfig(), 100)
	res := s.Snapshot()
	res.Swarm[0].Pos = mgl64.Vec2{-1, -1}
	res.Player.Vel = mgl64.Vec2{9, 9}

	again := s.Snapshot()
	assert.NotEqual(t, mgl64.Vec2{-1, -1}, again.Swarm[0].Pos)
	assert.Equal(t, mgl64.Vec2{}, again.Player.Vel)
	assert.NotEmpty(t, again.SessionID)
}
