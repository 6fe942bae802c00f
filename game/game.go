package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"swarmarena/arena"
	"swarmarena/bot"
	"swarmarena/sfx"
)

// scene is the screen the window is showing
type scene int

const (
	sceneMenu scene = iota
	scenePlay
	sceneHold // final frame stays up before the game-over screen
	sceneOver
)

// Game is the ebiten driver around one arena session at a time
type Game struct {
	config   Config
	arenaCfg arena.Config
	logger   *slog.Logger

	camera   *Camera
	renderer *Renderer
	input    *PlayerInput
	keys     KeyFunc // press edges for menus and toggles
	sound    *sfx.Player
	debug    DebugState

	scene    scene
	selected int
	hold     int

	sim     *arena.Simulation
	last    arena.TickResult
	pilot   *bot.Autopilot
	started time.Time

	// Performance profiling
	profiler *Profiler
	monitor  *tpsMonitor
}

// NewGame creates a game showing the menu
func NewGame(config Config, logger *slog.Logger) (*Game, error) {
	arenaCfg := arena.DefaultConfig()
	if err := arenaCfg.Validate(); err != nil {
		return nil, err
	}
	if config.TPS <= 0 {
		return nil, errors.Errorf("tps must be positive, got %d", config.TPS)
	}

	camera := NewCamera(float64(config.ScreenWidth), float64(config.ScreenHeight), arenaCfg.Bounds())
	g := &Game{
		config:   config,
		arenaCfg: arenaCfg,
		logger:   logger,
		camera:   camera,
		renderer: NewRenderer(camera),
		input:    NewPlayerInput(),
		keys:     inpututil.IsKeyJustPressed,
		sound:    sfx.NewPlayer(),
		scene:    sceneMenu,
		selected: stepSwarmSize(config.MaxSwarmSize, 0, arenaCfg.MinSwarmSize, arenaCfg.MaxSwarmSize),
	}

	if config.Sound {
		if err := g.sound.Init(); err != nil {
			logger.Warn("sound disabled", "err", err)
		}
	}
	if config.Profile {
		g.profiler = NewProfiler(config.ProfileDir, logger)
		g.monitor = newTPSMonitor(config.TPS, time.Now())
	}
	return g, nil
}

// Close releases the audio device
func (g *Game) Close() {
	g.sound.Close()
}

// Update advances the current scene by one frame
func (g *Game) Update() error {
	if g.keys(ebiten.KeyF1) {
		g.debug.ShowGrid = !g.debug.ShowGrid
	}
	if g.keys(ebiten.KeyM) {
		g.logger.Info("sound toggled", "muted", g.sound.ToggleMute())
	}
	g.watchTPS()

	switch g.scene {
	case sceneMenu:
		return g.updateMenu()
	case scenePlay:
		return g.updatePlay()
	case sceneHold:
		g.hold--
		if g.hold <= 0 {
			g.scene = sceneOver
		}
	case sceneOver:
		if g.keys(ebiten.KeyQ) {
			return ebiten.Termination
		}
		if g.keys(ebiten.KeyR) {
			g.scene = sceneMenu
		}
	}
	return nil
}

func (g *Game) updateMenu() error {
	switch readMenu(g.keys) {
	case menuIncrease:
		g.selected = stepSwarmSize(g.selected, g.config.SwarmStep, g.arenaCfg.MinSwarmSize, g.arenaCfg.MaxSwarmSize)
	case menuDecrease:
		g.selected = stepSwarmSize(g.selected, -g.config.SwarmStep, g.arenaCfg.MinSwarmSize, g.arenaCfg.MaxSwarmSize)
	case menuStart:
		return g.startSession(false)
	case menuDemo:
		return g.startSession(true)
	}
	return nil
}

// startSession creates and configures a fresh simulation
func (g *Game) startSession(demo bool) error {
	opts := []arena.Option{arena.WithCellSize(g.config.CellSize)}
	if g.config.Seed != 0 {
		opts = append(opts, arena.WithSeed(g.config.Seed))
	}
	sim, err := arena.New(g.arenaCfg, opts...)
	if err != nil {
		return errors.Wrap(err, "create session")
	}
	if err := sim.ConfigureSession(g.selected); err != nil {
		return errors.Wrap(err, "configure session")
	}

	g.sim = sim
	g.last = sim.Snapshot()
	g.pilot = nil
	if demo {
		g.pilot = bot.New(g.arenaCfg, bot.BehaviorHunt)
	}
	g.started = time.Now()
	g.scene = scenePlay

	g.logger.Info("session started",
		"session", sim.SessionID(),
		"max_swarm", g.selected,
		"seed", g.config.Seed,
		"demo", demo,
	)
	return nil
}

func (g *Game) updatePlay() error {
	if g.keys(ebiten.KeyEscape) {
		g.logger.Info("session abandoned", "session", g.sim.SessionID(), "tick", g.last.Tick)
		g.sim = nil
		g.scene = sceneMenu
		return nil
	}

	in := g.input.Read()
	if g.pilot != nil {
		in = g.pilot.Next(g.last)
	}

	res, err := g.sim.Tick(in)
	if err != nil {
		return errors.Wrap(err, "tick")
	}
	g.last = res
	g.sound.PlayTick(res)

	if res.Finished() {
		if err := g.sim.Terminate(); err != nil {
			return errors.Wrap(err, "terminate")
		}
		g.logger.Info("session finished",
			"session", res.SessionID,
			"outcome", res.Outcome.String(),
			"ticks", res.Tick,
			"swarm", len(res.Swarm),
			"elapsed", time.Since(g.started).Round(time.Millisecond),
		)
		g.hold = g.config.HoldTicks()
		g.scene = sceneHold
	}
	return nil
}

// watchTPS triggers a profile capture on a sustained update rate drop
func (g *Game) watchTPS() {
	if g.profiler == nil {
		return
	}
	tps := ebiten.ActualTPS()
	if !g.monitor.Observe(tps, time.Now()) {
		return
	}
	reason := fmt.Sprintf("tps%.0f-swarm%d", tps, len(g.last.Swarm))
	g.logger.Warn("tps drop detected", "tps", tps, "swarm", len(g.last.Swarm))
	if err := g.profiler.CaptureProfile(reason); err != nil {
		g.logger.Warn("profile capture skipped", "err", err)
	}
}

// Draw renders the current scene
func (g *Game) Draw(screen *ebiten.Image) {
	switch g.scene {
	case sceneMenu:
		g.renderer.RenderMenu(screen, g.selected, g.config.SwarmStep)
	case scenePlay, sceneHold:
		g.renderer.Render(screen, g.arenaCfg.Bounds(), g.last)
		if g.pilot != nil && g.pilot.HasTarget {
			g.renderer.drawTarget(screen, g.last.Player.Pos, g.pilot.Target)
		}
		if g.debug.ShowGrid && g.sim != nil {
			g.renderer.drawGrid(screen, g.sim.Grid(), ebiten.ActualTPS())
		}
	case sceneOver:
		g.renderer.RenderGameOver(screen, g.last.Outcome)
	}
}

// Layout returns the game's screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.ScreenWidth, g.config.ScreenHeight
}
