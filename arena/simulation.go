package arena

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// State is the lifecycle stage of a session
type State int

const (
	StateSetup State = iota
	StateRunning
	StatePlayerWon
	StateSwarmWon
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StatePlayerWon:
		return "player-won"
	case StateSwarmWon:
		return "swarm-won"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating the win condition after a tick
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerWon
	OutcomeSwarmWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerWon:
		return "player-won"
	case OutcomeSwarmWon:
		return "swarm-won"
	default:
		return "none"
	}
}

// Option customises a Simulation at construction
type Option func(*Simulation)

// WithRand sets the random source for spawn rolls and placement
func WithRand(r Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithSeed seeds a private math/rand source
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithSessionID overrides the generated session id
func WithSessionID(id string) Option {
	return func(s *Simulation) { s.sessionID = id }
}

// WithCellSize sets the spatial grid cell size
func WithCellSize(size float64) Option {
	return func(s *Simulation) { s.cellSize = size }
}

// Simulation owns one game session: the player, the swarm and the projectiles.
// It is not safe for concurrent use.
type Simulation struct {
	cfg       Config
	wall      Wall
	rng       Rand
	sessionID string
	cellSize  float64

	state    State
	tick     uint64
	lastID   EntityID
	maxSwarm int

	player      *Entity
	swarm       []*Entity
	staged      []*Entity
	projectiles []*Entity
	mag         magazine

	collisions *CollisionSystem

	// noEliminations turns off projectile and player eliminations
	noEliminations bool
}

// New creates a session in the Setup state
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:      cfg,
		wall:     cfg.Bounds(),
		cellSize: DefaultCellSize,
		state:    StateSetup,
		mag:      newMagazine(cfg.ProjectileCapacity, cfg.ReloadTime),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	s.collisions = NewCollisionSystem(NewGrid(s.wall, s.cellSize), cfg.SwarmRadius)
	return s, nil
}

// Config returns the session configuration
func (s *Simulation) Config() Config { return s.cfg }

// SessionID returns the session identifier used in logs
func (s *Simulation) SessionID() string { return s.sessionID }

// State returns the lifecycle stage
func (s *Simulation) State() State { return s.state }

// Grid exposes the spatial grid for debug overlays
func (s *Simulation) Grid() *Grid { return s.collisions.grid }

// ConfigureSession fixes the swarm win threshold, places the player and the
// initial swarm, and starts the session
func (s *Simulation) ConfigureSession(maxSwarmSize int) error {
	if s.state != StateSetup {
		return errors.Wrapf(ErrAlreadyConfigured, "state %s", s.state)
	}
	if maxSwarmSize < s.cfg.MinSwarmSize || maxSwarmSize > s.cfg.MaxSwarmSize {
		return errors.Wrapf(ErrInvalidSwarmSize, "%d not in [%d, %d]",
			maxSwarmSize, s.cfg.MinSwarmSize, s.cfg.MaxSwarmSize)
	}
	s.maxSwarm = maxSwarmSize

	s.player = NewPlayer(s.nextID(), s.cfg.Center, s.cfg.PlayerRadius)
	s.swarm = make([]*Entity, 0, maxSwarmSize)
	s.staged = make([]*Entity, 0, 16)
	s.projectiles = make([]*Entity, 0, s.cfg.ProjectileCapacity)

	for i := 0; i < s.cfg.InitialSwarm; i++ {
		angle := uniform(s.rng, 0, 2*math.Pi)
		speed := uniform(s.rng, s.cfg.InitialSpeedMin, s.cfg.InitialSpeedMax)
		offset := uniform(s.rng, s.cfg.InitialOffsetMin, s.cfg.InitialOffsetMax)
		s.swarm = append(s.swarm, &Entity{
			ID:     s.nextID(),
			Kind:   KindSwarm,
			Pos:    s.cfg.Center.Add(polar(angle, offset)),
			Vel:    polar(angle, speed),
			Radius: s.cfg.SwarmRadius,
			Color:  swarmColor(s.rng),
		})
	}

	s.state = StateRunning
	return nil
}

// Tick advances the session by one frame
func (s *Simulation) Tick(in Input) (TickResult, error) {
	if s.state != StateRunning {
		return TickResult{}, errors.Wrapf(ErrNotRunning, "state %s", s.state)
	}
	s.tick++

	var ev Events
	rule := s.spawnRule()

	// Player
	s.player.ApplyInput(in.Move, s.cfg.AccelStep)
	s.player.ApplyFriction(s.cfg.Friction)
	s.player.Move()
	s.player.BounceOffWall(s.wall, rule)

	if in.Fire {
		ev.Fired = s.fire()
	}

	ev.Bounces, ev.Spawned = s.updateSwarm(rule)

	// Positions are final for the rest of the tick
	s.collisions.Index(s.swarm)

	ev.Expired, ev.Consumed = s.updateProjectiles()
	ev.Reloaded = s.mag.advance()

	if !s.noEliminations {
		ev.Collided = s.collisions.Consume(s.player)
	}
	s.swarm = s.collisions.Sweep(s.swarm)

	outcome := s.evaluate()
	switch outcome {
	case OutcomePlayerWon:
		s.state = StatePlayerWon
	case OutcomeSwarmWon:
		s.state = StateSwarmWon
	}

	res := s.snapshot()
	res.Events = ev
	res.Outcome = outcome
	return res, nil
}

// Terminate acknowledges a finished session
func (s *Simulation) Terminate() error {
	if s.state != StatePlayerWon && s.state != StateSwarmWon {
		return errors.Wrapf(ErrNotFinished, "state %s", s.state)
	}
	s.state = StateTerminated
	return nil
}

// Snapshot returns the current state without advancing
func (s *Simulation) Snapshot() TickResult {
	res := s.snapshot()
	switch s.state {
	case StatePlayerWon:
		res.Outcome = OutcomePlayerWon
	case StateSwarmWon:
		res.Outcome = OutcomeSwarmWon
	}
	return res
}

func (s *Simulation) nextID() EntityID {
	s.lastID++
	return s.lastID
}

func (s *Simulation) spawnRule() SpawnRule {
	return SpawnRule{Cooldown: s.cfg.SpawnCooldown, Chance: s.cfg.SpawnChance, Rand: s.rng}
}

// fire launches a projectile from the player when ammo and a heading exist
func (s *Simulation) fire() bool {
	if s.mag.available <= 0 {
		return false
	}
	p, ok := NewProjectile(InvalidEntityID, s.player, s.cfg.ProjectileSpeed)
	if !ok {
		return false
	}
	p.ID = s.nextID()
	s.mag.take()
	s.projectiles = append(s.projectiles, p)
	return true
}

// updateSwarm moves and bounces every swarm entity. Spawns are staged and
// appended after the pass so they are not processed on their birth tick.
func (s *Simulation) updateSwarm(rule SpawnRule) (bounces, spawned int) {
	s.staged = s.staged[:0]
	for _, e := range s.swarm {
		e.Move()
		touching := e.Touches(s.wall)
		if e.BounceOffWall(s.wall, rule) {
			s.staged = append(s.staged, s.spawnAt(e))
		}
		if touching {
			bounces++
		}
		e.ResetSpawnCooldown()
	}
	s.swarm = append(s.swarm, s.staged...)
	return bounces, len(s.staged)
}

// spawnAt creates a swarm entity at the parent's bounce point
func (s *Simulation) spawnAt(parent *Entity) *Entity {
	angle := uniform(s.rng, 0, 2*math.Pi)
	speed := uniform(s.rng, s.cfg.SpawnSpeedMin, s.cfg.SpawnSpeedMax)
	return &Entity{
		ID:     s.nextID(),
		Kind:   KindSwarm,
		Pos:    parent.Pos,
		Vel:    polar(angle, speed),
		Radius: s.cfg.SwarmRadius,
		Color:  swarmColor(s.rng),
	}
}

// updateProjectiles moves projectiles, drops those that reached the wall and
// lets each one, expiring or not, consume the swarm entities it overlaps
func (s *Simulation) updateProjectiles() (expired, consumed int) {
	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		p.Move()
		if p.BounceOffWall(s.wall, SpawnRule{}) {
			expired++
		} else {
			kept = append(kept, p)
		}
		if !s.noEliminations {
			consumed += s.collisions.Consume(p)
		}
	}
	for i := len(kept); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = kept
	return expired, consumed
}

func (s *Simulation) evaluate() Outcome {
	switch {
	case len(s.swarm) == 0:
		return OutcomePlayerWon
	case len(s.swarm) >= s.maxSwarm:
		return OutcomeSwarmWon
	default:
		return OutcomeNone
	}
}
