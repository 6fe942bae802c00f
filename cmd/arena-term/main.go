package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "arena-term"
	app.Usage = "Big Ball vs Small Balls in the terminal"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "max-swarm", Value: 200, Usage: "Initial swarm threshold on the menu"},
		cli.Int64Flag{Name: "seed", Value: 0, Usage: "Random seed; 0 seeds from the clock"},
		cli.IntFlag{Name: "tps", Value: 60, Usage: "Number of ticks per second"},
		cli.DurationFlag{Name: "hold", Value: 2 * time.Second, Usage: "How long the final frame stays up"},
		cli.BoolFlag{Name: "sound", Usage: "Enable sound effects"},
		cli.StringFlag{Name: "log-file", Value: "", Usage: "Write logs to this file (the screen belongs to the game)"},
	}
	app.Action = func(c *cli.Context) error {
		if c.Int("tps") <= 0 {
			return errors.Errorf("tps must be positive, got %d", c.Int("tps"))
		}

		var out io.Writer = io.Discard
		if path := c.String("log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return errors.Wrap(err, "open log file")
			}
			defer f.Close()
			out = f
		}
		logger := slog.New(slog.NewTextHandler(out, nil))

		screen, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "create screen")
		}
		if err := screen.Init(); err != nil {
			return errors.Wrap(err, "init screen")
		}
		defer screen.Fini()

		d := newDriver(screen, options{
			maxSwarm: c.Int("max-swarm"),
			seed:     c.Int64("seed"),
			tps:      c.Int("tps"),
			hold:     c.Duration("hold"),
			sound:    c.Bool("sound"),
		}, logger)
		return d.run()
	}
	return app
}
