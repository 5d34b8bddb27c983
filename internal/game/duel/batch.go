package duel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arena/internal/game/combat"
	"github.com/udisondev/arena/internal/model"
)

// ErrNoRuns is returned for a batch with Runs < 1.
var ErrNoRuns = errors.New("batch needs at least one run")

// BatchOptions configures RunBatch.
type BatchOptions struct {
	Runs    int
	Workers int    // 0 → GOMAXPROCS
	Seed    uint64 // run i uses seed Seed+i
}

// Summary aggregates the outcomes of a batch.
type Summary struct {
	Runs     int
	WinsA    int
	WinsB    int
	Draws    int
	FirstA   int // runs where side A struck first
	AvgTurns float64
}

// WinRateA returns the share of runs won by side A.
func (s Summary) WinRateA() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.WinsA) / float64(s.Runs)
}

// WinRateB returns the share of runs won by side B.
func (s Summary) WinRateB() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.WinsB) / float64(s.Runs)
}

// RunBatch plays opts.Runs independent battles between a and b.
// Every run owns a seeded Random, so a batch with the same Seed
// yields the same Summary regardless of Workers.
// ctx is checked between runs, never inside one.
func RunBatch(ctx context.Context, r *combat.Resolver, a, b *model.DetailedStatRecord, opts BatchOptions) (Summary, error) {
	if opts.Runs < 1 {
		return Summary{}, fmt.Errorf("run batch: %d runs: %w", opts.Runs, ErrNoRuns)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if err := combat.ValidateRecord(a); err != nil {
		return Summary{}, fmt.Errorf("run batch: side A: %w", err)
	}
	if err := combat.ValidateRecord(b); err != nil {
		return Summary{}, fmt.Errorf("run batch: side B: %w", err)
	}

	var winsA, winsB, draws, firstA, turns atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range opts.Runs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Resolve(a, b, combat.NewSeeded(opts.Seed+uint64(i)))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			switch res.Outcome {
			case combat.OutcomeWinnerA:
				winsA.Add(1)
			case combat.OutcomeWinnerB:
				winsB.Add(1)
			default:
				draws.Add(1)
			}
			if res.FirstAttacker == combat.SideA {
				firstA.Add(1)
			}
			turns.Add(int64(res.Turns))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("run batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, fmt.Errorf("run batch: %w", err)
	}

	sum := Summary{
		Runs:   opts.Runs,
		WinsA:  int(winsA.Load()),
		WinsB:  int(winsB.Load()),
		Draws:  int(draws.Load()),
		FirstA: int(firstA.Load()),
	}
	sum.AvgTurns = float64(turns.Load()) / float64(sum.Runs)

	slog.Debug("batch finished",
		"runs", sum.Runs,
		"workers", workers,
		"winsA", sum.WinsA,
		"winsB", sum.WinsB,
		"draws", sum.Draws)

	return sum, nil
}
