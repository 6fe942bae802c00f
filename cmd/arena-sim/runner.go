package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"swarmarena/arena"
	"swarmarena/bot"
)

type batchOptions struct {
	sessions int
	maxSwarm int
	seed     int64
	parallel int
	maxTicks int
	behavior bot.Behavior
	cellSize float64
}

func (o batchOptions) validate() error {
	switch {
	case o.sessions < 1:
		return errors.Errorf("sessions must be at least 1, got %d", o.sessions)
	case o.parallel < 1:
		return errors.Errorf("parallel must be at least 1, got %d", o.parallel)
	case o.maxTicks < 1:
		return errors.Errorf("max-ticks must be at least 1, got %d", o.maxTicks)
	case o.cellSize <= 0:
		return errors.Errorf("cell-size must be positive, got %v", o.cellSize)
	}
	return nil
}

// sessionResult is the outcome of one autopilot session
type sessionResult struct {
	Index      int
	SessionID  string
	Seed       int64
	Outcome    arena.Outcome
	Ticks      uint64
	FinalSwarm int
	Fired      int
	Eliminated int
	Spawned    int
	TimedOut   bool
}

// playSession runs one simulation to completion with the autopilot.
// Cancellation is checked between ticks.
func playSession(ctx context.Context, cfg arena.Config, opts batchOptions, index int, seed int64) (sessionResult, error) {
	sim, err := arena.New(cfg, arena.WithSeed(seed), arena.WithCellSize(opts.cellSize))
	if err != nil {
		return sessionResult{}, err
	}
	if err := sim.ConfigureSession(opts.maxSwarm); err != nil {
		return sessionResult{}, err
	}

	out := sessionResult{Index: index, SessionID: sim.SessionID(), Seed: seed}
	pilot := bot.New(cfg, opts.behavior)
	res := sim.Snapshot()

	for i := 0; i < opts.maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err = sim.Tick(pilot.Next(res))
		if err != nil {
			return out, err
		}
		if res.Events.Fired {
			out.Fired++
		}
		out.Eliminated += res.Events.Consumed + res.Events.Collided
		out.Spawned += res.Events.Spawned

		if res.Finished() {
			out.Outcome, out.Ticks, out.FinalSwarm = res.Outcome, res.Tick, len(res.Swarm)
			return out, sim.Terminate()
		}
	}

	out.Ticks, out.FinalSwarm, out.TimedOut = res.Tick, len(res.Swarm), true
	return out, nil
}

// runBatch plays opts.sessions sessions on up to opts.parallel goroutines,
// each with its own simulation and seed
func runBatch(ctx context.Context, cfg arena.Config, opts batchOptions, logger *slog.Logger) ([]sessionResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([]sessionResult, 0, opts.sessions)
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.parallel)
	for i := 0; i < opts.sessions; i++ {
		index, seed := i, opts.seed+int64(i)
		eg.Go(func() error {
			res, err := playSession(ctx, cfg, opts, index, seed)
			if err != nil {
				return errors.Wrapf(err, "session %d (seed %d)", index, seed)
			}
			logger.InfoContext(ctx, "session finished",
				"session_id", res.SessionID,
				"seed", res.Seed,
				"outcome", res.Outcome.String(),
				"ticks", res.Ticks,
				"timed_out", res.TimedOut,
			)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Index < results[b].Index })
	return results, nil
}

// summary aggregates a batch
type summary struct {
	Sessions  int
	PlayerWon int
	SwarmWon  int
	TimedOut  int
	MeanTicks float64
}

func summarize(results []sessionResult) summary {
	s := summary{Sessions: len(results)}
	var ticks uint64
	for _, r := range results {
		switch {
		case r.TimedOut:
			s.TimedOut++
		case r.Outcome == arena.OutcomePlayerWon:
			s.PlayerWon++
		case r.Outcome == arena.OutcomeSwarmWon:
			s.SwarmWon++
		}
		ticks += r.Ticks
	}
	if len(results) > 0 {
		s.MeanTicks = float64(ticks) / float64(len(results))
	}
	return s
}

func printResults(w io.Writer, results []sessionResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSEED\tOUTCOME\tTICKS\tSWARM\tFIRED\tELIMINATED\tSPAWNED")
	for _, r := range results {
		outcome := r.Outcome.String()
		if r.TimedOut {
			outcome = "timeout"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Index, r.Seed, outcome, r.Ticks, r.FinalSwarm, r.Fired, r.Eliminated, r.Spawned)
	}
	s := summarize(results)
	fmt.Fprintf(tw, "\nsessions %d\tplayer-won %d\tswarm-won %d\ttimeout %d\tmean ticks %.1f\n",
		s.Sessions, s.PlayerWon, s.SwarmWon, s.TimedOut, s.MeanTicks)
	return tw.Flush()
}
