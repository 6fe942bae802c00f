package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"swarmarena/arena"
	"swarmarena/bot"
)

func main() {
	app := makeapp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp(stdout io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "arena-sim"
	app.Usage = "Play Big Ball vs Small Balls sessions headless with the autopilot"
	app.Writer = stdout

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Play a batch of sessions and print the outcomes",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "sessions", Value: 10, Usage: "Number of sessions to play"},
				cli.IntFlag{Name: "max-swarm", Value: 200, Usage: "Swarm size at which the swarm wins"},
				cli.Int64Flag{Name: "seed", Value: 0, Usage: "Seed of the first session; 0 seeds from the clock"},
				cli.IntFlag{Name: "parallel", Value: runtime.NumCPU(), Usage: "Sessions played at once"},
				cli.IntFlag{Name: "max-ticks", Value: 60 * 60 * 10, Usage: "Tick budget per session"},
				cli.StringFlag{Name: "behavior", Value: "hunt", Usage: "Autopilot behaviour: hunt or orbit"},
				cli.Float64Flag{Name: "cell-size", Value: arena.DefaultCellSize, Usage: "Spatial grid cell size"},
				cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			},
			Action: func(c *cli.Context) error {
				behavior, ok := bot.ParseBehavior(c.String("behavior"))
				if !ok {
					return errors.Errorf("unknown behaviour %q", c.String("behavior"))
				}
				seed := c.Int64("seed")
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				opts := batchOptions{
					sessions: c.Int("sessions"),
					maxSwarm: c.Int("max-swarm"),
					seed:     seed,
					parallel: c.Int("parallel"),
					maxTicks: c.Int("max-ticks"),
					behavior: behavior,
					cellSize: c.Float64("cell-size"),
				}
				return runAction(c.App.Writer, opts, newLogger(c.Bool("debug")))
			},
		},
		{
			Name:  "config",
			Usage: "Print the arena configuration",
			Action: func(c *cli.Context) error {
				return printConfig(c.App.Writer, arena.DefaultConfig())
			},
		},
	}
	return app
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runAction(w io.Writer, opts batchOptions, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.InfoContext(ctx, "batch started",
		"sessions", opts.sessions,
		"max_swarm", opts.maxSwarm,
		"seed", opts.seed,
		"parallel", opts.parallel,
		"behavior", opts.behavior.String(),
	)
	start := time.Now()
	results, err := runBatch(ctx, arena.DefaultConfig(), opts, logger)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "batch finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return printResults(w, results)
}

func printConfig(w io.Writer, cfg arena.Config) error {
	rows := []struct {
		name  string
		value any
	}{
		{"center", fmt.Sprintf("%v,%v", cfg.Center.X(), cfg.Center.Y())},
		{"radius", cfg.Radius},
		{"player-radius", cfg.PlayerRadius},
		{"swarm-radius", cfg.SwarmRadius},
		{"initial-swarm", cfg.InitialSwarm},
		{"initial-offset", fmt.Sprintf("%v..%v", cfg.InitialOffsetMin, cfg.InitialOffsetMax)},
		{"initial-speed", fmt.Sprintf("%v..%v", cfg.InitialSpeedMin, cfg.InitialSpeedMax)},
		{"spawn-speed", fmt.Sprintf("%v..%v", cfg.SpawnSpeedMin, cfg.SpawnSpeedMax)},
		{"spawn-cooldown", cfg.SpawnCooldown},
		{"spawn-chance", cfg.SpawnChance},
		{"projectile-speed", cfg.ProjectileSpeed},
		{"projectile-capacity", cfg.ProjectileCapacity},
		{"reload-time", cfg.ReloadTime},
		{"accel-step", cfg.AccelStep},
		{"friction", cfg.Friction},
		{"swarm-size", fmt.Sprintf("%d..%d", cfg.MinSwarmSize, cfg.MaxSwarmSize)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-20s %v\n", r.name, r.value); err != nil {
			return err
		}
	}
	return nil
}
