package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"swarmarena/arena"
	"swarmarena/bot"
	"swarmarena/sfx"
)

type scene int

const (
	sceneMenu scene = iota
	scenePlay
	sceneHold
	sceneOver
)

type options struct {
	maxSwarm int
	seed     int64
	tps      int
	hold     time.Duration
	sound    bool
}

// driver runs the arena in a terminal. Only the loop goroutine touches the
// simulation; the poller hands events over a channel.
type driver struct {
	screen tcell.Screen
	opts   options
	cfg    arena.Config
	logger *slog.Logger
	sound  *sfx.Player

	scene    scene
	selected int
	holdLeft int

	sim   *arena.Simulation
	last  arena.TickResult
	keys  *heldKeys
	pilot *bot.Autopilot
}

func newDriver(screen tcell.Screen, opts options, logger *slog.Logger) *driver {
	cfg := arena.DefaultConfig()
	selected := opts.maxSwarm
	if selected < cfg.MinSwarmSize {
		selected = cfg.MinSwarmSize
	}
	if selected > cfg.MaxSwarmSize {
		selected = cfg.MaxSwarmSize
	}
	return &driver{
		screen:   screen,
		opts:     opts,
		cfg:      cfg,
		logger:   logger,
		sound:    sfx.NewPlayer(),
		selected: selected,
		keys:     newHeldKeys(defaultHold),
	}
}

func (d *driver) run() error {
	if d.opts.sound {
		if err := d.sound.Init(); err != nil {
			d.logger.Warn("sound disabled", "err", err)
		}
	}
	defer d.sound.Close()

	ticker := time.NewTicker(time.Second / time.Duration(d.opts.tps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := d.handle(ev, time.Now())
			if err != nil || quit {
				return err
			}
		case <-ticker.C:
			if err := d.step(time.Now()); err != nil {
				return err
			}
			d.draw()
		}
	}
}

// handle applies one terminal event; it returns true when the program should exit
func (d *driver) handle(ev tcell.Event, now time.Time) (bool, error) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resized := ev.(*tcell.EventResize); resized {
			d.screen.Sync()
		}
		return false, nil
	}
	if key.Key() == tcell.KeyCtrlC {
		return true, nil
	}

	switch d.scene {
	case sceneMenu:
		switch {
		case key.Key() == tcell.KeyEscape || key.Rune() == 'q':
			return true, nil
		case key.Key() == tcell.KeyEnter:
			return false, d.start(false)
		case key.Rune() == '+' || key.Rune() == '=' || key.Key() == tcell.KeyUp:
			d.selected = min(d.selected+50, d.cfg.MaxSwarmSize)
		case key.Rune() == '-' || key.Key() == tcell.KeyDown:
			d.selected = max(d.selected-50, d.cfg.MinSwarmSize)
		case key.Rune() == 'd':
			return false, d.start(true)
		}
	case scenePlay:
		if key.Key() == tcell.KeyEscape {
			d.logger.Info("session abandoned", "session", d.sim.SessionID(), "tick", d.last.Tick)
			d.scene = sceneMenu
			return false, nil
		}
		if key.Rune() == ' ' {
			d.keys.Fire()
		} else if dir, ok := keyDirection(key); ok {
			d.keys.Press(dir, now)
		}
	case sceneOver:
		switch key.Rune() {
		case 'q', 'Q':
			return true, nil
		case 'r', 'R':
			d.scene = sceneMenu
		}
	}
	return false, nil
}

func (d *driver) start(demo bool) error {
	opts := []arena.Option{}
	if d.opts.seed != 0 {
		opts = append(opts, arena.WithSeed(d.opts.seed))
	}
	sim, err := arena.New(d.cfg, opts...)
	if err != nil {
		return errors.Wrap(err, "create session")
	}
	if err := sim.ConfigureSession(d.selected); err != nil {
		return errors.Wrap(err, "configure session")
	}

	d.sim = sim
	d.last = sim.Snapshot()
	d.keys.Reset()
	d.pilot = nil
	if demo {
		d.pilot = bot.New(d.cfg, bot.BehaviorHunt)
	}
	d.scene = scenePlay
	d.logger.Info("session started", "session", sim.SessionID(), "max_swarm", d.selected, "demo", demo)
	return nil
}

// step advances the active scene by one tick
func (d *driver) step(now time.Time) error {
	switch d.scene {
	case scenePlay:
		in := d.keys.Input(now)
		if d.pilot != nil {
			in = d.pilot.Next(d.last)
		}
		res, err := d.sim.Tick(in)
		if err != nil {
			return errors.Wrap(err, "tick")
		}
		d.last = res
		d.sound.PlayTick(res)

		if res.Finished() {
			if err := d.sim.Terminate(); err != nil {
				return errors.Wrap(err, "terminate")
			}
			d.logger.Info("session finished", "session", res.SessionID, "outcome", res.Outcome.String(), "ticks", res.Tick)
			d.holdLeft = int(d.opts.hold.Seconds() * float64(d.opts.tps))
			d.scene = sceneHold
		}
	case sceneHold:
		d.holdLeft--
		if d.holdLeft <= 0 {
			d.scene = sceneOver
		}
	}
	return nil
}

func (d *driver) draw() {
	d.screen.Clear()
	cols, h := d.screen.Size()

	switch d.scene {
	case sceneMenu:
		drawCentered(d.screen, h/4, tcell.StyleDefault.Bold(true), "Big Ball vs Small Balls")
		drawCentered(d.screen, h/2-2, tcell.StyleDefault, "Use +/- to increase/decrease by 50")
		drawCentered(d.screen, h/2, tcell.StyleDefault.Foreground(tcell.ColorYellow),
			fmt.Sprintf("Select Max Small Balls: %d", d.selected))
		drawCentered(d.screen, h/2+3, tcell.StyleDefault.Foreground(tcell.ColorGreen),
			"Press Enter to Start", "Press d for a demo run, q to quit")
		drawCentered(d.screen, h-3, tcell.StyleDefault, "Press Space to Shoot!")
	case scenePlay, sceneHold:
		drawArena(d.screen, newViewport(cols, h, d.cfg.Bounds()), d.last, d.opts.tps)
	case sceneOver:
		winner := "Small Balls Win!"
		if d.last.Outcome == arena.OutcomePlayerWon {
			winner = "Big Ball Wins!"
		}
		drawCentered(d.screen, h/2-1, tcell.StyleDefault.Bold(true), winner)
		drawCentered(d.screen, h/2+1, tcell.StyleDefault, "Press Q to exit, R to play again")
	}
	d.screen.Show()
}
